package utils

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Config holds the values of a "Key: value" config file. Repeated Columns
// lines append, comma separated values are split.
type Config struct {
	InputDir    string
	Output      string
	Columns     []string
	Names       string
	Placeholder string
	LogFile     string
	TpmTable    string
	PvalTable   string
	Genes       []string
}

func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	var cfg Config

	scanner := bufio.NewScanner(configFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "InputDir":
			cfg.InputDir = value
		case "Output":
			cfg.Output = value
		case "Columns":
			cfg.Columns = append(cfg.Columns, splitList(value)...)
		case "Names":
			cfg.Names = value
		case "Placeholder":
			cfg.Placeholder = value
		case "LogFile":
			cfg.LogFile = value
		case "TpmTable":
			cfg.TpmTable = value
		case "PvalTable":
			cfg.PvalTable = value
		case "Gene":
			cfg.Genes = append(cfg.Genes, splitList(value)...)
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil

}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// NewLogger fans records out to a text handler on stderr and, when logPath is
// set, a JSON handler appending to logPath. The returned closer releases the
// log file.
func NewLogger(logPath string) (*slog.Logger, io.Closer, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
	var closer io.Closer = io.NopCloser(nil)

	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
		closer = logFile
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
