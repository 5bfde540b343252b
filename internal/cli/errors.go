package cli

import (
	"errors"
	"fmt"
)

type invalidInputError struct {
	flag  string
	value string
	msg   string
}

func (e invalidInputError) Error() string {
	return fmt.Sprintf("invalid --%s %q: %s", e.flag, e.value, e.msg)
}

func errInvalidInput(flag, value, msg string) error {
	return invalidInputError{flag: flag, value: value, msg: msg}
}

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var errDoctorIssuesFound = errors.New("doctor found issues")
