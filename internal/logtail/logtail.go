package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one line of a console-encoded log file.
type Entry struct {
	Raw     string
	Time    string
	Level   string
	Logger  string
	Message string
	Fields  string
}

// Parse splits a tab-separated console line. Lines that do not carry a
// recognised level keep only Raw and Message.
func Parse(line string) Entry {
	e := Entry{Raw: line, Message: line}
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return e
	}
	level := strings.ToUpper(strings.TrimSpace(parts[1]))
	if levelRank(level) < 0 {
		return e
	}
	e.Time = parts[0]
	e.Level = level

	rest := parts[2:]
	if last := rest[len(rest)-1]; strings.HasPrefix(last, "{") && len(rest) > 1 {
		e.Fields = last
		rest = rest[:len(rest)-1]
	}
	e.Message = rest[len(rest)-1]
	if len(rest) > 1 {
		e.Logger = strings.Join(rest[:len(rest)-1], " ")
	}
	return e
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries
}

// Filter keeps entries at or above minLevel. Entries without a level are
// continuation lines and follow whatever precedes them.
func Filter(entries []Entry, minLevel string) []Entry {
	min := levelRank(strings.ToUpper(strings.TrimSpace(minLevel)))
	if min <= 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	keep := false
	for _, e := range entries {
		if e.Level != "" {
			keep = levelRank(e.Level) >= min
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// NextLevel cycles through the filter levels; "" means everything.
func NextLevel(current string) string {
	switch strings.ToUpper(current) {
	case "":
		return "INFO"
	case "INFO":
		return "WARN"
	case "WARN":
		return "ERROR"
	default:
		return ""
	}
}

func levelRank(level string) int {
	switch level {
	case "DEBUG":
		return 0
	case "INFO":
		return 1
	case "WARN":
		return 2
	case "ERROR":
		return 3
	case "DPANIC", "PANIC", "FATAL":
		return 4
	default:
		return -1
	}
}
