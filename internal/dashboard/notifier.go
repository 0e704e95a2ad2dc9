package dashboard

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a toast: a short, user-facing outcome message.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

type Notifier interface {
	Notify(n Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

var noticeStyles = map[Level]lipgloss.Style{
	LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// ConsoleNotifier prints each notice as one styled line.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Notify(n Notice) {
	style, ok := noticeStyles[n.Level]
	if !ok {
		style = noticeStyles[LevelInfo]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, style.Render(fmt.Sprintf("[%s] %s: %s", n.Level, n.Title, n.Message)))
}

func errorNotice(title, message string) Notice {
	return Notice{Level: LevelError, Title: title, Message: message}
}
