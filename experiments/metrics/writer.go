package metrics

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// AgentConfig identifies one planner setup taking part in an experiment.
type AgentConfig struct {
	ID                int
	Strategy          string
	NBest             int
	RankBySpeedup     bool
	RankByDeltaWinETA bool
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	GameMetric
}

type PlanRecord struct {
	Game int // GameRecord.ID
	TurnMetric
}

// PlanLogEntry is one announced build plan in the compressed plan log.
type PlanLogEntry struct {
	Game   int      `json:"game"`
	Turn   int      `json:"turn"`
	Player int      `json:"player"`
	Type   string   `json:"type"`
	Pieces []string `json:"pieces"`
}

type Writer struct {
	baseDir string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	baseDir := filepath.Join(root, "experiments", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Strategy,
			strconv.Itoa(config.NBest),
			strconv.FormatBool(config.RankBySpeedup),
			strconv.FormatBool(config.RankByDeltaWinETA),
		})
	}
	header := []string{"id", "strategy", "n_best", "rank_by_speedup", "rank_by_delta_win_eta"}
	if err := w.writeCSV("agent_configs.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.GameID,
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.Winner),
			record.WinnerStrategy,
			strconv.Itoa(record.TotalTurns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	header := []string{"id", "game_id", "agent1", "agent2", "starting_player", "winner", "winner_strategy", "turns", "start_time", "end_time", "duration"}
	if err := w.writeCSV("game_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WritePlanRecords(records []PlanRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Strategy,
			strconv.Itoa(record.Candidates),
			strconv.Itoa(record.Tries),
			record.PlanType,
			strconv.Itoa(record.PlanSize),
			record.Duration.String(),
		})
	}
	header := []string{"game", "step", "player", "strategy", "candidates", "tries", "plan_type", "plan_size", "duration"}
	if err := w.writeCSV("plan_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write plan records: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// LogPlan appends one entry to plans.jsonl.zst.
func (w *Writer) LogPlan(entry PlanLogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		if err := w.openLocked(); err != nil {
			return fmt.Errorf("failed to open plan log: %w", err)
		}
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode plan log entry: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) openLocked() error {
	f, err := os.OpenFile(filepath.Join(w.baseDir, "plans.jsonl.zst"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	return nil
}

// Close flushes the plan log.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.w != nil {
		err = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}
