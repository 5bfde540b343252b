package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dayplanner/internal/model"
	"dayplanner/internal/planner"
	"dayplanner/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var fixedNow = time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DAYPLANNER_CONFIG", "")
	t.Setenv("DAYPLANNER_DIR", "")
	t.Setenv("DAYPLANNER_DATA_DIR", "")
	t.Setenv("DAYPLANNER_LOG_LEVEL", "")
	t.Setenv("DAYPLANNER_FORMAT", "")
	t.Setenv("NO_COLOR", "1")
	return t.TempDir()
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(&App{Now: func() time.Time { return fixedNow }})

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) []byte {
	t.Helper()
	out, errOut, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func decodeData(t *testing.T, out []byte, into any) map[string]any {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
		Meta map[string]any  `json:"meta"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, out)
	}
	if err := json.Unmarshal(env.Data, into); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
	return env.Meta
}

func TestAddEventAndTask_ShareIDSequence(t *testing.T) {
	dir := isolate(t)

	var ev eventOut
	meta := decodeData(t, mustRun(t, "--dir", dir, "--format", "json",
		"add-event", "--title", "Standup", "--date", "2026-01-01", "--time", "09:00"), &ev)
	if ev.ID != 1 || ev.Date != "2026-01-01" || ev.Time != "09:00" || ev.AllDay || ev.Title != "Standup" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if meta["nextId"] != float64(2) {
		t.Fatalf("expected nextId 2, got %v", meta["nextId"])
	}

	var task taskOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json",
		"add-task", "--title", "Buy milk", "--priority", "high"), &task)
	if task.ID != 2 || task.Title != "Buy milk" || task.Done {
		t.Fatalf("unexpected task: %+v", task)
	}

	var agenda agendaOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "agenda", "2026-01-01"), &agenda)
	if agenda.Weekday != "Thu" || len(agenda.Events) != 1 || agenda.PendingTasks != 1 {
		t.Fatalf("unexpected agenda: %+v", agenda)
	}
}

func TestAgenda_TextDefaultsToToday(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-event", "--title", "Lunch", "--time", "12:00")
	mustRun(t, "--dir", dir, "add-event", "--title", "Holiday")

	out := string(mustRun(t, "--dir", dir, "agenda"))
	for _, want := range []string{"Thu 2026-01-01   [0 pending tasks]", "All day * Holiday  #2", "12:00PM * Lunch  #1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "Holiday") > strings.Index(out, "Lunch") {
		t.Fatalf("all-day events sort first:\n%s", out)
	}

	out = string(mustRun(t, "--dir", dir, "agenda", "2026-01-02"))
	if !strings.Contains(out, "Fri 2026-01-02") || !strings.Contains(out, "No events.") {
		t.Fatalf("unexpected empty agenda:\n%s", out)
	}
}

func TestAddEvent_RejectsBadFlags(t *testing.T) {
	dir := isolate(t)
	cases := [][]string{
		{"add-event", "--title", "x", "--time", "25:00"},
		{"add-event", "--title", "x", "--time", "9am"},
		{"add-event", "--title", "x", "--priority", "urgent"},
		{"add-event", "--title", "x", "--date", "tomorrow"},
		{"add-event", "--title", "   "},
		{"add-task"},
	}
	for _, args := range cases {
		_, errOut, err := runCLI(t, append([]string{"--dir", dir}, args...))
		if err == nil {
			t.Fatalf("%v: expected error", args)
		}
		var inv invalidInputError
		if !errors.As(err, &inv) {
			t.Fatalf("%v: expected invalidInputError, got %T %v", args, err, err)
		}
		if !strings.Contains(string(errOut), "invalid --") {
			t.Fatalf("%v: expected message on stderr, got %q", args, errOut)
		}
	}

	var agenda agendaOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "agenda"), &agenda)
	if len(agenda.Events) != 0 {
		t.Fatalf("rejected commands must not create events: %+v", agenda.Events)
	}
}

func TestAddEvent_ClampsDateAndTruncatesTitle(t *testing.T) {
	dir := isolate(t)
	var ev eventOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json",
		"add-event", "--title", strings.Repeat("a", 60), "--date", "2026-02-31"), &ev)
	if ev.Date != "2026-02-28" || len(ev.Title) != 40 || !ev.AllDay {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestTasks_DisplayOrder(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-task", "--title", "low one", "--priority", "low")
	mustRun(t, "--dir", dir, "add-task", "--title", "normal one")
	mustRun(t, "--dir", dir, "add-task", "--title", "high one", "--priority", "h")

	var out tasksOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "tasks"), &out)
	if out.Pending != 3 || len(out.Tasks) != 3 {
		t.Fatalf("unexpected tasks: %+v", out)
	}
	got := []string{out.Tasks[0].Title, out.Tasks[1].Title, out.Tasks[2].Title}
	if strings.Join(got, ",") != "high one,normal one,low one" {
		t.Fatalf("unexpected order: %v", got)
	}

	text := string(mustRun(t, "--dir", dir, "tasks"))
	if !strings.Contains(text, "Tasks   [3 pending]") || !strings.Contains(text, "[ ] ! high one  #3") {
		t.Fatalf("unexpected text:\n%s", text)
	}
}

func TestMonth_GridAndCounts(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-event", "--title", "Valentine", "--date", "2026-02-14")
	mustRun(t, "--dir", dir, "add-event", "--title", "Dinner", "--date", "2026-02-14", "--time", "19:30")

	var m monthOut
	meta := decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "month", "2026-02"), &m)
	if m.Name != "February" || len(m.Weeks) != 4 || m.Weeks[0][0] != 1 {
		t.Fatalf("unexpected grid: %+v", m)
	}
	if len(m.Days) != 1 || m.Days[0].Date != "2026-02-14" || m.Days[0].Events != 2 {
		t.Fatalf("unexpected days: %+v", m.Days)
	}
	if meta["events"] != float64(2) {
		t.Fatalf("unexpected meta: %v", meta)
	}

	text := string(mustRun(t, "--dir", dir, "month", "2026-02"))
	if !strings.Contains(text, "February 2026") || !strings.Contains(text, " 14*") || strings.Contains(text, " 13*") {
		t.Fatalf("unexpected month text:\n%s", text)
	}

	// Default month follows the pinned clock.
	text = string(mustRun(t, "--dir", dir, "month"))
	if !strings.Contains(text, "January 2026") {
		t.Fatalf("expected current month:\n%s", text)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := isolate(t)
	mustRun(t, "--dir", src, "add-event", "--title", "Standup", "--date", "2026-01-05", "--time", "09:15", "--priority", "high")
	mustRun(t, "--dir", src, "add-event", "--title", "Trip, day one", "--date", "2026-01-06", "--priority", "low")

	ics := string(mustRun(t, "--dir", src, "export"))
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Standup", "DTSTART:20260105T091500", "UID:event-1@dayplanner"} {
		if !strings.Contains(ics, want) {
			t.Fatalf("expected %q in export:\n%s", want, ics)
		}
	}

	file := filepath.Join(t.TempDir(), "out", "planner.ics")
	mustRun(t, "--dir", src, "export", "--out", file)
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("expected export file: %v", err)
	}

	dst := t.TempDir()
	mustRun(t, "--dir", dst, "add-task", "--title", "existing")

	var res importOut
	decodeData(t, mustRun(t, "--dir", dst, "--format", "json", "import", file), &res)
	if res.Added != 2 || res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("unexpected import result: %+v", res)
	}

	var agenda agendaOut
	decodeData(t, mustRun(t, "--dir", dst, "--format", "json", "agenda", "2026-01-06"), &agenda)
	if len(agenda.Events) != 1 {
		t.Fatalf("expected imported all-day event: %+v", agenda)
	}
	got := agenda.Events[0]
	if got.Title != "Trip, day one" || !got.AllDay || got.Priority.Label() != "Low" || got.ID < 2 {
		t.Fatalf("unexpected imported event: %+v", got)
	}
}

func TestImport_DryRunSavesNothing(t *testing.T) {
	src := isolate(t)
	mustRun(t, "--dir", src, "add-event", "--title", "Standup")
	file := filepath.Join(t.TempDir(), "a.ics")
	mustRun(t, "--dir", src, "export", "--out", file)

	dst := t.TempDir()
	var res importOut
	decodeData(t, mustRun(t, "--dir", dst, "--format", "json", "import", "--dry-run", file), &res)
	if res.Imported != 1 || res.Added != 0 {
		t.Fatalf("unexpected dry run: %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dst, "planner.sqlite")); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the database, stat err=%v", err)
	}
}

func TestDoctor_DetectsAndRepairsCounter(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-event", "--title", "Standup")
	mustRun(t, "--dir", dir, "add-task", "--title", "Buy milk")

	if err := store.NewSQLiteRecords(dir).PutRaw(context.Background(), store.KeyNextID, []byte("1")); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "json", "doctor", "--fail"})
	if !errors.Is(err, errDoctorIssuesFound) {
		t.Fatalf("expected doctor failure, got %v", err)
	}
	var rep doctorReport
	decodeData(t, out, &rep)
	if rep.Backend != "sqlite" || rep.Events != 1 || rep.Tasks != 1 || rep.NextID != 1 || rep.MaxID != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !rep.has("next_id_behind") {
		t.Fatalf("expected next_id_behind issue: %+v", rep.Issues)
	}
	if _, ok := rep.UpdatedAt[store.KeyEvents]; !ok {
		t.Fatalf("expected updatedAt for events: %+v", rep.UpdatedAt)
	}

	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "doctor", "--repair", "--fail"), &rep)
	if !rep.Repaired || rep.NextID != 3 || rep.HasErrors() {
		t.Fatalf("unexpected repaired report: %+v", rep)
	}

	var task taskOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "add-task", "--title", "Next"), &task)
	if task.ID != 3 {
		t.Fatalf("expected id 3 after repair, got %d", task.ID)
	}
}

func TestEphemeral_WritesNothing(t *testing.T) {
	dir := isolate(t)
	var ev eventOut
	decodeData(t, mustRun(t, "--dir", dir, "--ephemeral", "--format", "json", "add-event", "--title", "Scratch"), &ev)
	if ev.ID != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty data dir, found %d entries", len(entries))
	}

	var rep doctorReport
	decodeData(t, mustRun(t, "--dir", dir, "--ephemeral", "--format", "json", "doctor"), &rep)
	if rep.Backend != "memory" || rep.Events != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestDocs(t *testing.T) {
	dir := isolate(t)

	var topics topicsOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "docs"), &topics)
	if strings.Join(topics.Topics, ",") != "config,ics,keys,storage" {
		t.Fatalf("unexpected topics: %v", topics.Topics)
	}

	raw := string(mustRun(t, "--dir", dir, "docs", "keys", "--raw"))
	if !strings.HasPrefix(strings.TrimSpace(raw), "#") {
		t.Fatalf("expected raw markdown, got:\n%s", raw)
	}

	rendered := string(mustRun(t, "--dir", dir, "docs", "KEYS"))
	if strings.TrimSpace(rendered) == "" {
		t.Fatalf("expected rendered docs")
	}

	_, _, err := runCLI(t, []string{"--dir", dir, "docs", "../keys"})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError for path-like topic, got %v", err)
	}
}

func TestFormat_YAMLAndUnknown(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-task", "--title", "Buy milk")

	out := string(mustRun(t, "--dir", dir, "--format", "yaml", "tasks"))
	if !strings.Contains(out, "title: Buy milk") || !strings.Contains(out, "priority: Normal") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "tasks"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestConfig_InvalidLevelAborts(t *testing.T) {
	dir := isolate(t)
	t.Setenv("DAYPLANNER_LOG_LEVEL", "loud")
	_, _, err := runCLI(t, []string{"--dir", dir, "tasks"})
	if err == nil || !strings.Contains(err.Error(), "log.level") {
		t.Fatalf("expected config validation error, got %v", err)
	}
}

func TestConfig_DataDirFromFile(t *testing.T) {
	isolate(t)
	dataDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("data:\n  dir: "+dataDir+"\nlog:\n  level: \"off\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, "--config", cfgPath, "add-task", "--title", "From config")
	if _, err := os.Stat(filepath.Join(dataDir, "planner.sqlite")); err != nil {
		t.Fatalf("expected database under configured dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "dayplanner.log")); !os.IsNotExist(err) {
		t.Fatalf("log.level=off must not create a log file, stat err=%v", err)
	}
}

func TestStartDate_Precedence(t *testing.T) {
	dir := isolate(t)
	app := &App{Dir: dir, Now: func() time.Time { return fixedNow }}
	if err := app.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer app.teardown()

	if got := app.startDate().String(); got != "2026-01-01" {
		t.Fatalf("expected today, got %s", got)
	}

	if err := app.dataStore().SaveUIState(&store.UIState{LastDate: "2025-12-24", LastView: "day"}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	if got := app.startDate().String(); got != "2026-01-01" {
		t.Fatalf("remembered date needs ui.restore_last_date, got %s", got)
	}
	app.cfg.UI.RestoreLastDate = true
	if got := app.startDate().String(); got != "2025-12-24" {
		t.Fatalf("expected remembered date, got %s", got)
	}
	app.cfg.UI.StartDate = "2026-03-01"
	if got := app.startDate().String(); got != "2026-03-01" {
		t.Fatalf("expected configured start date, got %s", got)
	}
}

func TestStartView_RestoredWithLastDate(t *testing.T) {
	dir := isolate(t)
	app := &App{Dir: dir, Now: func() time.Time { return fixedNow }}
	if err := app.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer app.teardown()

	if err := app.dataStore().SaveUIState(&store.UIState{LastDate: "2025-12-24", LastView: "month"}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	if got := app.startView(); got != planner.StateDayView {
		t.Fatalf("remembered view needs ui.restore_last_date, got %v", got)
	}
	app.cfg.UI.RestoreLastDate = true
	if got := app.startView(); got != planner.StateMonthView {
		t.Fatalf("expected month view, got %v", got)
	}

	if err := app.dataStore().SaveUIState(&store.UIState{LastDate: "2025-12-24", LastView: "confirm-delete"}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	if got := app.startView(); got != planner.StateDayView {
		t.Fatalf("unknown view must fall back to day, got %v", got)
	}
}

func TestMutatingCommands_RefusedWhileSessionOpen(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-task", "--title", "Before")
	file := filepath.Join(t.TempDir(), "a.ics")
	mustRun(t, "--dir", dir, "add-event", "--title", "Standup")
	mustRun(t, "--dir", dir, "export", "--out", file)

	session, err := store.Store{Dir: dir}.AcquireSessionLock()
	if err != nil {
		t.Fatalf("session lock: %v", err)
	}
	for _, args := range [][]string{
		{"add-event", "--title", "Lost"},
		{"add-task", "--title", "Lost"},
		{"import", file},
	} {
		_, _, err := runCLI(t, append([]string{"--dir", dir}, args...))
		var locked *store.LockedError
		if !errors.As(err, &locked) {
			t.Fatalf("%v: expected *store.LockedError, got %v", args, err)
		}
	}

	// Reads don't need the lock.
	var tasks tasksOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "tasks"), &tasks)
	if len(tasks.Tasks) != 1 {
		t.Fatalf("refused writes must leave the store alone: %+v", tasks)
	}

	if err := session.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	var task taskOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "add-task", "--title", "After"), &task)
	if task.ID != 3 {
		t.Fatalf("expected id 3 once the session closed, got %d", task.ID)
	}
}

func TestAdd_RefusedWhenIDsExhausted(t *testing.T) {
	dir := isolate(t)
	snap := model.Snapshot{
		Tasks:  []model.Task{model.NewTask(math.MaxUint32, "last")},
		NextID: math.MaxUint32,
	}
	if err := store.Save(context.Background(), store.NewSQLiteRecords(dir), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, args := range [][]string{
		{"add-task", "--title", "one more"},
		{"add-event", "--title", "one more"},
	} {
		_, _, err := runCLI(t, append([]string{"--dir", dir}, args...))
		if !errors.Is(err, model.ErrIDsExhausted) {
			t.Fatalf("%v: expected ErrIDsExhausted, got %v", args, err)
		}
	}

	var rep doctorReport
	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "json", "doctor", "--fail"})
	if !errors.Is(err, errDoctorIssuesFound) {
		t.Fatalf("expected doctor failure, got %v", err)
	}
	decodeData(t, out, &rep)
	if !rep.has("ids_exhausted") || rep.has("next_id_behind") {
		t.Fatalf("expected only ids_exhausted: %+v", rep.Issues)
	}
	if rep.Tasks != 1 || rep.Events != 0 {
		t.Fatalf("nothing may be created: %+v", rep)
	}
}

func TestPublish_WritesAgendaPages(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "add-event", "--title", "Standup", "--time", "09:00")
	mustRun(t, "--dir", dir, "add-task", "--title", "Buy milk")

	to := filepath.Join(t.TempDir(), "site")
	var res publishOut
	decodeData(t, mustRun(t, "--dir", dir, "--format", "json", "publish", "--to", to, "--days", "2", "--tasks"), &res)
	if res.From != "2026-01-01" || res.Days != 2 || len(res.Written) != 4 {
		t.Fatalf("unexpected publish result: %+v", res)
	}
	day, err := os.ReadFile(filepath.Join(to, "days", "2026-01-01.md"))
	if err != nil {
		t.Fatalf("read day page: %v", err)
	}
	if !strings.Contains(string(day), "- 9:00AM Standup") {
		t.Fatalf("unexpected day page:\n%s", day)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "publish", "--to", to}); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
}

func TestEveryFlagHasUsage(t *testing.T) {
	root := NewRootCmd()
	check := func(c *cobra.Command, f *pflag.Flag) {
		if strings.TrimSpace(f.Usage) == "" {
			t.Fatalf("%s: flag --%s has no usage text", c.CommandPath(), f.Name)
		}
	}
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) { check(root, f) })
	for _, c := range root.Commands() {
		if strings.TrimSpace(c.Short) == "" {
			t.Fatalf("%s: missing short description", c.CommandPath())
		}
		c.Flags().VisitAll(func(f *pflag.Flag) { check(c, f) })
	}
}
