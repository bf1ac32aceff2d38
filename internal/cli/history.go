package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MalanSathya/terraformcoder-ai/internal/config"
	"github.com/MalanSathya/terraformcoder-ai/internal/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func newHistoryCmd() *cobra.Command {
	var (
		configPath string
		email      string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse a user's generation history",
		Long: `History lists a user's stored generations in an interactive picker.
Selecting an entry prints its Terraform code and diagram link.

The command reads the store configured for the server (MongoDB, or the
in-memory store which is empty outside a running server process).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			user, err := st.UserByEmail(ctx, email)
			if err != nil {
				return err
			}
			generations, err := st.GenerationsByUser(ctx, user.ID, limit)
			if err != nil {
				return err
			}
			if len(generations) == 0 {
				printInfo("no generations for %s", email)
				return nil
			}

			model := newHistoryModel(generations)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(historyModel); ok && m.selected != nil {
				printGeneration(*m.selected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email to browse")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum entries to list")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// historyModel is the bubbletea model for picking a generation.
type historyModel struct {
	generations []store.Generation
	cursor      int
	selected    *store.Generation
	height      int
	offset      int
}

func newHistoryModel(generations []store.Generation) historyModel {
	return historyModel{generations: generations, height: 15}
}

func (m historyModel) Init() tea.Cmd { return nil }

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.generations)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			g := m.generations[m.cursor]
			m.selected = &g
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m historyModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generation History"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.generations))
	for i := m.offset; i < end; i++ {
		g := m.generations[i]
		line := fmt.Sprintf("%s  %s  %s",
			g.CreatedAt.Format("2006-01-02 15:04"),
			g.Provider,
			truncateLine(g.Description, 60))

		if i == m.cursor {
			b.WriteString("▸ " + listSelectedStyle.Render(line))
		} else {
			b.WriteString("  " + listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncateLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func printGeneration(g store.Generation) {
	fmt.Println(StyleTitle.Render(truncateLine(g.Description, 80)))
	printInfo("%s, %s, %s", g.Provider, g.EstimatedCost, g.CreatedAt.Format(time.RFC3339))
	if g.Explanation != "" {
		fmt.Println(StyleDim.Render(g.Explanation))
	}
	fmt.Println()
	fmt.Println(g.Code)
	if g.Diagram.ChartURL != "" {
		fmt.Println()
		fmt.Println(StyleTitle.Render("Diagram") + " " + StyleLink.Render(g.Diagram.ChartURL))
	}
}
