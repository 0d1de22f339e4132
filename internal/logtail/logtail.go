package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
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

// Level is the severity inferred from a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelRecovered
)

// lineRE matches "[prefix] 2006/01/02 15:04:05 message".
var lineRE = regexp.MustCompile(`^(\[[^\]]+\] )?(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) (.*)$`)

var (
	stylePrefix    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	styleTimestamp = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
	styleWarn      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "220"})
	styleError     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"})
	styleRecovered = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
)

// Classify infers the severity of a tray log line from its message.
func Classify(line string) Level {
	msg := strings.ToLower(line)
	if m := lineRE.FindStringSubmatch(line); m != nil {
		msg = strings.ToLower(m[3])
	}
	switch {
	case strings.HasPrefix(msg, "warning:"), strings.HasPrefix(msg, "start daemon with:"):
		return LevelWarn
	case strings.Contains(msg, "failed"), strings.Contains(msg, "rejected"):
		return LevelError
	case strings.Contains(msg, "reachable again"):
		return LevelRecovered
	default:
		return LevelInfo
	}
}

// ColorizeLine styles the prefix, timestamp and message of a log line.
// Lines in another format are styled by severity only.
func ColorizeLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	msgStyle := messageStyle(Classify(line))

	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return msgStyle.Render(line)
	}
	var b strings.Builder
	if m[1] != "" {
		b.WriteString(stylePrefix.Render(strings.TrimSuffix(m[1], " ")))
		b.WriteString(" ")
	}
	b.WriteString(styleTimestamp.Render(m[2]))
	b.WriteString(" ")
	b.WriteString(msgStyle.Render(m[3]))
	return b.String()
}

// ColorizeLines applies ColorizeLine to every line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}

func messageStyle(level Level) lipgloss.Style {
	switch level {
	case LevelWarn:
		return styleWarn
	case LevelError:
		return styleError
	case LevelRecovered:
		return styleRecovered
	default:
		return lipgloss.NewStyle()
	}
}
