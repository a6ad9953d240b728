// Package tui is the interactive dashboard for today's plan.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/tasks"
	"github.com/julianstephens/helpme/internal/tui/components/plan"
	"github.com/julianstephens/helpme/internal/tui/components/tasklist"
)

type SessionState int

const (
	StatePlan SessionState = iota
	StateTasks
	StateCapacity
)

const tabCount = 2

// Planner reads and regenerates daily plans.
type Planner interface {
	GetPlan(ctx context.Context, ownerID, date string) (models.DailyPlan, error)
	GeneratePlan(ctx context.Context, ownerID, date string) (models.DailyPlan, error)
}

// Tasks lists, completes and charges tasks.
type Tasks interface {
	ListOpen(ctx context.Context, ownerID string) ([]models.Task, error)
	Complete(ctx context.Context, ownerID, taskID string, capacityAfter models.Mood) (tasks.Completed, error)
	Remaining(ctx context.Context, ownerID, date string) (models.RemainingEnergy, error)
}

type Model struct {
	ctx     context.Context
	planner Planner
	tasks   Tasks
	ownerID string
	date    string

	state      SessionState
	keys       KeyMap
	help       help.Model
	planModel  plan.Model
	taskList   tasklist.Model
	energy     models.RemainingEnergy
	completing *models.Task
	status     string
	err        error
	quitting   bool
	width      int
	height     int
}

func NewModel(ctx context.Context, planner Planner, tasks Tasks, ownerID, date string) Model {
	return Model{
		ctx:       ctx,
		planner:   planner,
		tasks:     tasks,
		ownerID:   ownerID,
		date:      date,
		state:     StatePlan,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		planModel: plan.New(0, 0),
		taskList:  tasklist.New(nil, 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StatePlan:
		keys = append(keys, m.keys.Reprioritize)
	case StateTasks:
		keys = append(keys, tasklist.DefaultKeyMap().Complete)
	case StateCapacity:
		keys = []key.Binding{m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// loadedMsg carries a full refresh of the dashboard.
type loadedMsg struct {
	plan   *models.DailyPlan
	open   []models.Task
	energy models.RemainingEnergy
	err    error
}

type completedMsg struct {
	done tasks.Completed
	err  error
}

type reprioritizedMsg struct {
	err error
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		open, err := m.tasks.ListOpen(m.ctx, m.ownerID)
		if err != nil {
			return loadedMsg{err: err}
		}
		energy, err := m.tasks.Remaining(m.ctx, m.ownerID, m.date)
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{open: open, energy: energy}
		if p, err := m.planner.GetPlan(m.ctx, m.ownerID, m.date); err == nil {
			msg.plan = &p
		}
		return msg
	}
}

func (m Model) complete(task models.Task, capacity models.Mood) tea.Cmd {
	return func() tea.Msg {
		done, err := m.tasks.Complete(m.ctx, m.ownerID, task.ID, capacity)
		return completedMsg{done: done, err: err}
	}
}

func (m Model) reprioritize() tea.Cmd {
	return func() tea.Msg {
		_, err := m.planner.GeneratePlan(m.ctx, m.ownerID, m.date)
		return reprioritizedMsg{err: err}
	}
}
