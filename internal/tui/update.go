package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/tui/components/tasklist"
)

// chrome is the rows taken by tabs, energy, status and help.
const chrome = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.planModel.SetSize(msg.Width-4, msg.Height-chrome)
		m.taskList.SetSize(msg.Width-4, msg.Height-chrome)
		return m, nil

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.energy = msg.energy
			m.planModel.SetPlan(msg.plan, msg.open)
			m.taskList.SetTasks(msg.open)
		}
		return m, nil

	case completedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.done.EnergyNotTracked {
			m.status = fmt.Sprintf("✓ %s (energy not tracked)", msg.done.Task.Title)
		} else {
			m.status = fmt.Sprintf("✓ %s -%d energy", msg.done.Task.Title, msg.done.Deducted)
		}
		return m, m.load()

	case reprioritizedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Plan regenerated"
		}
		return m, m.load()

	case tasklist.CompleteTaskMsg:
		task := msg.Task
		m.completing = &task
		m.state = StateCapacity
		return m, nil

	case tea.KeyMsg:
		if m.state == StateCapacity {
			return m.updateCapacity(msg)
		}
		if m.state == StateTasks && m.taskList.Filtering() {
			var cmd tea.Cmd
			m.taskList, cmd = m.taskList.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case m.state == StatePlan && key.Matches(msg, m.keys.Reprioritize):
			m.status = "Reprioritizing..."
			return m, m.reprioritize()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StatePlan:
		m.planModel, cmd = m.planModel.Update(msg)
	case StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	}
	return m, cmd
}

// updateCapacity handles the "how do you feel" prompt after picking a task.
func (m Model) updateCapacity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Quit) {
		m.completing = nil
		m.state = StateTasks
		return m, nil
	}
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || int(s[0]-'1') >= len(models.AllMoods) {
		return m, nil
	}
	capacity := models.AllMoods[s[0]-'1']
	task := *m.completing
	m.completing = nil
	m.state = StateTasks
	return m, m.complete(task, capacity)
}
