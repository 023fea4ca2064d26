package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

const minimalScenario = `
name: minimal
description: "smallest valid scenario"
tour:
  tourName: Wachau
  transportationType: Bicycle
snapshot:
  tourId: 1
  tourName: Wachau
  transportationType: Bicycle
expect:
  outcome: ok
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario("minimal.yaml", []byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, OutcomeOK, s.Expect.Outcome)
	assert.Nil(t, s.Expect.Created, "absent id lists are not checked")
	require.NotNil(t, s.initial)
	require.NotNil(t, s.snapshot)
	assert.Equal(t, tour.TransportBicycle, s.initial.TransportType)
	assert.Equal(t, int64(1), s.snapshot.ID)
}

func TestLoadScenario_DecodesTours(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/drop_update_create.yaml")
	require.NoError(t, err)

	require.Len(t, s.initial.Logs, 3)
	assert.Equal(t, "ferry", s.initial.Logs[1].Comment)
	require.Len(t, s.snapshot.Logs, 3)
	assert.Equal(t, int64(3), s.snapshot.Logs[0].ID)
	assert.Zero(t, s.snapshot.Logs[2].ID)
	assert.Equal(t, "03:30:00", tour.FormatClock(s.snapshot.Logs[2].TimeTaken))
	assert.Equal(t, []int64{4}, s.Expect.Created)
	assert.Equal(t, []int64{2}, s.Expect.Deleted)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    minimalScenario + "assertion: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: `
description: x
tour: {tourName: A, transportationType: Car}
snapshot: {tourId: 1, tourName: A, transportationType: Car}
expect: {outcome: ok}
`,
			wantErr: "name is required",
		},
		{
			name: "missing snapshot",
			yaml: `
name: x
description: x
tour: {tourName: A, transportationType: Car}
expect: {outcome: ok}
`,
			wantErr: "snapshot is required",
		},
		{
			name: "missing outcome",
			yaml: `
name: x
description: x
tour: {tourName: A, transportationType: Car}
snapshot: {tourId: 1, tourName: A, transportationType: Car}
`,
			wantErr: "expect.outcome is required",
		},
		{
			name: "unknown outcome",
			yaml: `
name: x
description: x
tour: {tourName: A, transportationType: Car}
snapshot: {tourId: 1, tourName: A, transportationType: Car}
expect: {outcome: maybe}
`,
			wantErr: "unknown outcome",
		},
		{
			name: "unknown fail op",
			yaml: minimalScenario + `
fail:
  - {op: drop_table, error: store}
`,
			wantErr: "unknown store op",
		},
		{
			name: "unknown fail error",
			yaml: minimalScenario + `
fail:
  - {op: delete_log, error: timeout}
`,
			wantErr: "error must be",
		},
		{
			name: "call_order without ops",
			yaml: minimalScenario + `
assertions:
  - {type: call_order}
`,
			wantErr: "ops list is required",
		},
		{
			name: "absent without log",
			yaml: minimalScenario + `
assertions:
  - {type: final_state, absent: true}
`,
			wantErr: "absent requires log_id",
		},
		{
			name: "final_state without expect",
			yaml: minimalScenario + `
assertions:
  - {type: final_state, log_id: 1}
`,
			wantErr: "expect is required",
		},
		{
			name: "unknown assertion",
			yaml: minimalScenario + `
assertions:
  - {type: trace_contains}
`,
			wantErr: "unknown assertion type",
		},
		{
			name: "tour violates schema",
			yaml: `
name: x
description: x
tour: {tourName: A, transportationType: Spaceship}
snapshot: {tourId: 1, tourName: A, transportationType: Car}
expect: {outcome: ok}
`,
			wantErr: "invalid scenario: tour",
		},
		{
			name: "snapshot violates schema",
			yaml: `
name: x
description: x
tour: {tourName: A, transportationType: Car}
snapshot: {tourId: 1, tourName: A, transportationType: Car, logs: [{timeStamp: "2024-01-01T00:00:00Z", difficulty: 9}]}
expect: {outcome: ok}
`,
			wantErr: "invalid scenario: snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario("bad.yaml", []byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioFiles_AllParse(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			_, err = ParseScenario(filepath.Base(path), data)
			assert.NoError(t, err)
		})
	}
}
