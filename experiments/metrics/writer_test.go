package metrics

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	t.Run("csv records", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "matchups")
		require.NoError(t, err)

		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Strategy: "fast"}, {ID: 2, Strategy: "smart"}}))
		now := time.Now()
		require.NoError(t, w.WriteGameRecords([]GameRecord{{
			ID: 1, Agent1: 1, Agent2: 2,
			GameMetric: GameMetric{Winner: 1, WinnerStrategy: "smart", StartTime: now, EndTime: now, TotalTurns: 80},
		}}))
		require.NoError(t, w.WritePlanRecords([]PlanRecord{
			{Game: 1, TurnMetric: TurnMetric{Step: 1, PlanMetric: PlanMetric{Player: 0, PlanType: "CITY", PlanSize: 1}}},
			{Game: 1, TurnMetric: TurnMetric{Step: 2, PlanMetric: PlanMetric{Player: 1, PlanType: "SETTLEMENT", PlanSize: 3}}},
		}))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "smart", rows[2][1])

		rows = readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "80", rows[1][7])

		rows = readCSV(t, filepath.Join(w.Dir(), "plan_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "SETTLEMENT", rows[2][6])
	})

	t.Run("compressed plan log", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "log")
		require.NoError(t, err)

		entries := []PlanLogEntry{
			{Game: 1, Turn: 3, Player: 0, Type: "CITY", Pieces: []string{"city@12"}},
			{Game: 1, Turn: 4, Player: 1, Type: "SETTLEMENT", Pieces: []string{"road@40", "settlement@22"}},
		}
		for _, e := range entries {
			require.NoError(t, w.LogPlan(e))
		}
		require.NoError(t, w.Close())

		f, err := os.Open(filepath.Join(w.Dir(), "plans.jsonl.zst"))
		require.NoError(t, err)
		defer f.Close()
		dec, err := zstd.NewReader(f)
		require.NoError(t, err)
		defer dec.Close()

		var got []PlanLogEntry
		scanner := bufio.NewScanner(dec)
		for scanner.Scan() {
			var e PlanLogEntry
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
			got = append(got, e)
		}
		require.NoError(t, scanner.Err())
		require.Equal(t, entries, got)
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(2, "nbest")
	c.AddCandidate()
	c.AddCandidate()
	c.AddTry()
	m := c.Complete("CARD", 1)
	require.Equal(t, 2, m.Player)
	require.Equal(t, "nbest", m.Strategy)
	require.Equal(t, 2, m.Candidates)
	require.Equal(t, 1, m.Tries)
	require.Equal(t, "CARD", m.PlanType)

	c.Start(0, "fast")
	require.Zero(t, c.Complete("", 0).Candidates)

	require.Equal(t, PlanMetric{}, NewDummyCollector().Complete("CITY", 1))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
