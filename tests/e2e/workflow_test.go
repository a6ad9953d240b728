package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

type plan struct {
	PlanDate         string            `json:"planDate"`
	EnergyBudget     int               `json:"energyBudget"`
	AlgorithmVersion string            `json:"algorithmVersion"`
	RankedTaskIDs    []string          `json:"rankedTaskIds"`
	TaskReasoning    map[string]string `json:"taskReasoning"`
}

type task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("HELPME_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "helpme")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it first with 'go build -o bin/helpme ./cmd/helpme'.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "HELPME_") {
			continue
		}
		env = append(env, e)
	}
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("HELPME_DB_CONNECTION=%s", filepath.Join(tempDir, "helpme", "helpme.db")),
		"HELPME_MODEL_PROVIDER=none",
		"HELPME_OWNER=e2e",
	)

	// 2. Initialize CLI
	t.Log("Initializing CLI...")
	runCmd(t, cliPath, env, "init")
	runCmd(t, cliPath, env, "profile", "set", "--name", "E2E", "--role", "Tester", "--focus", "Morning")

	// 3. Add tasks
	runCmd(t, cliPath, env, "task", "add", "Write design doc", "--intensity", "DeepFocus")
	runCmd(t, cliPath, env, "task", "add", "Reply to email", "--intensity", "QuickWin", "--tags", "inbox")
	runCmd(t, cliPath, env, "task", "add", "Team sync", "--intensity", "Meeting")

	var tasks []task
	decode(t, runCmd(t, cliPath, env, "task", "list", "--json"), &tasks)
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 open tasks, got %d", len(tasks))
	}

	// 4. Morning check-in plans the day
	t.Log("Checking in...")
	var checkIn struct {
		CheckIn struct {
			EnergyBudget int `json:"energyBudget"`
		} `json:"checkIn"`
		Plan      *plan   `json:"plan"`
		PlanError *string `json:"planError"`
	}
	decode(t, runCmd(t, cliPath, env, "checkin", "--rest", "8", "--mood", "Fresh", "--json"), &checkIn)
	if checkIn.PlanError != nil {
		t.Fatalf("Plan generation failed: %s", *checkIn.PlanError)
	}
	if checkIn.Plan == nil || checkIn.Plan.AlgorithmVersion != "v1-det-heuristic" {
		t.Fatalf("Expected a heuristic plan, got %+v", checkIn.Plan)
	}

	var shown plan
	decode(t, runCmd(t, cliPath, env, "plan", "--json"), &shown)
	assertPermutation(t, tasks, shown.RankedTaskIDs)
	for _, id := range shown.RankedTaskIDs {
		if strings.TrimSpace(shown.TaskReasoning[id]) == "" {
			t.Errorf("Task %s has no reasoning", id)
		}
	}
	runCmd(t, cliPath, env, "validate")

	// 5. Complete the top task and check the ledger
	top := shown.RankedTaskIDs[0]
	t.Logf("Completing %s", top)
	var done struct {
		Deducted         int  `json:"deducted"`
		EnergyNotTracked bool `json:"energyNotTracked"`
	}
	decode(t, runCmd(t, cliPath, env, "complete", top, "--capacity", "Neutral", "--json"), &done)
	if done.EnergyNotTracked || done.Deducted <= 0 {
		t.Fatalf("Expected a tracked deduction, got %+v", done)
	}

	var energy struct {
		EnergyBudget  int `json:"energyBudget"`
		TotalDeducted int `json:"totalDeducted"`
		Remaining     int `json:"remaining"`
	}
	decode(t, runCmd(t, cliPath, env, "energy", "--json"), &energy)
	if energy.EnergyBudget != checkIn.CheckIn.EnergyBudget || energy.TotalDeducted != done.Deducted ||
		energy.Remaining != energy.EnergyBudget-done.Deducted {
		t.Errorf("Unexpected energy state %+v after deducting %d", energy, done.Deducted)
	}

	// 6. Reprioritize drops the completed task
	var again plan
	decode(t, runCmd(t, cliPath, env, "reprioritize", "--json"), &again)
	if len(again.RankedTaskIDs) != 2 {
		t.Fatalf("Expected 2 ranked tasks after completion, got %v", again.RankedTaskIDs)
	}
	for _, id := range again.RankedTaskIDs {
		if id == top {
			t.Errorf("Completed task %s is still ranked", id)
		}
	}

	// 7. Health checks
	runCmd(t, cliPath, env, "doctor")
}

func assertPermutation(t *testing.T, tasks []task, ranked []string) {
	t.Helper()
	want := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		want = append(want, tk.ID)
	}
	got := append([]string(nil), ranked...)
	sort.Strings(want)
	sort.Strings(got)
	if strings.Join(want, ",") != strings.Join(got, ",") {
		t.Fatalf("Ranking %v is not a permutation of open tasks %v", ranked, want)
	}
}

func decode(t *testing.T, out []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(out, v); err != nil {
		t.Fatalf("Failed to decode JSON: %v\nOutput: %s", err, out)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) []byte {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s\nStderr: %s", path, args, err, out, stderr.String())
	}
	return out
}
