package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/simcore/machine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	deviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectDevice modelState = iota
	stateInputAccess
	stateShowResult
)

type inspectorModel struct {
	err      error
	m        *machine.Machine
	cfg      machine.Config
	devices  []machine.DeviceInfo
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	state    modelState
}

type builtMsg struct {
	err     error
	m       *machine.Machine
	devices []machine.DeviceInfo
}

type accessResultMsg struct {
	err    error
	result string
}

func newInspectorModel(cfg machine.Config) *inspectorModel {
	return &inspectorModel{cfg: cfg, state: stateSelectDevice}
}

func (m *inspectorModel) Init() tea.Cmd {
	return m.buildMachine
}

func (m *inspectorModel) buildMachine() tea.Msg {
	mach, err := machine.New(context.Background(), m.cfg)
	if err != nil {
		return builtMsg{err: err}
	}
	return builtMsg{m: mach, devices: mach.Devices()}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.m != nil {
				m.m.Close(context.Background())
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectDevice && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectDevice && m.selected < len(m.devices)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectDevice:
				m.prepareInputs()
				m.state = stateInputAccess

			case stateInputAccess:
				return m, m.performAccess

			case stateShowResult:
				m.state = stateSelectDevice
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputAccess && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputAccess:
				m.state = stateSelectDevice
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectDevice
				m.result = ""
				m.err = nil
			}
		}

	case builtMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.m = msg.m
		m.devices = msg.devices

	case accessResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputAccess {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *inspectorModel) prepareInputs() {
	prompts := []struct{ prompt, placeholder string }{
		{"offset: ", "0x0"},
		{"length: ", "16"},
		{"store bytes: ", "hex, empty for load"},
	}
	m.inputs = make([]textinput.Model, len(prompts))
	for i, p := range prompts {
		ti := textinput.New()
		ti.Prompt = p.prompt
		ti.Placeholder = p.placeholder
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *inspectorModel) performAccess() tea.Msg {
	dev := m.devices[m.selected]

	offset, err := strconv.ParseUint(strings.TrimSpace(m.inputs[0].Value()), 0, 64)
	if err != nil {
		return accessResultMsg{err: fmt.Errorf("offset: %w", err)}
	}
	addr := dev.Base + offset

	if hexStr := strings.TrimSpace(m.inputs[2].Value()); hexStr != "" {
		data, err := hex.DecodeString(hexStr)
		if err != nil {
			return accessResultMsg{err: fmt.Errorf("store bytes: %w", err)}
		}
		if !m.m.Store(addr, data) {
			return accessResultMsg{err: fmt.Errorf("store of %d bytes at %#x faulted", len(data), addr)}
		}
		return accessResultMsg{result: fmt.Sprintf("stored %d bytes at %#x", len(data), addr)}
	}

	n := uint64(16)
	if lenStr := strings.TrimSpace(m.inputs[1].Value()); lenStr != "" {
		n, err = strconv.ParseUint(lenStr, 0, 16)
		if err != nil {
			return accessResultMsg{err: fmt.Errorf("length: %w", err)}
		}
	}
	data := make([]byte, n)
	if !m.m.Load(addr, data) {
		return accessResultMsg{err: fmt.Errorf("load of %d bytes at %#x faulted", n, addr)}
	}
	return accessResultMsg{result: hexDump(addr, data)}
}

func (m *inspectorModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.m == nil {
		return "Assembling machine..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Address Space Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectDevice:
		b.WriteString("Select a device:\n\n")
		for i, d := range m.devices {
			line := deviceStyle.Render(d.Name) + " @ " + addrStyle.Render(fmt.Sprintf("%#x", d.Base))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + d.Name + fmt.Sprintf(" @ %#x", d.Base)))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter access • q quit"))

	case stateInputAccess:
		d := m.devices[m.selected]
		b.WriteString(fmt.Sprintf("Access %s @ %s\n\n",
			deviceStyle.Render(d.Name), addrStyle.Render(fmt.Sprintf("%#x", d.Base))))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(cfg machine.Config) error {
	p := tea.NewProgram(newInspectorModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
