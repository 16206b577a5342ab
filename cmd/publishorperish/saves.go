package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/publishorperish/internal/game"
	"github.com/lox/publishorperish/internal/savegame"
	"github.com/lox/publishorperish/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// SavesCmd manages the configured save backend.
type SavesCmd struct {
	List   SavesListCmd   `cmd:"" default:"1" help:"List save slots"`
	Show   SavesShowCmd   `cmd:"" help:"Show a saved game"`
	Delete SavesDeleteCmd `cmd:"" help:"Delete a save slot"`
}

type SavesListCmd struct{}

type SavesShowCmd struct {
	Slot string `arg:"" optional:"" help:"Slot to show (defaults to the config)"`
	JSON bool   `help:"Print the raw save"`
}

type SavesDeleteCmd struct {
	Slot string `arg:"" help:"Slot to delete"`
}

// withBackend opens the configured backend for the duration of fn.
func withBackend(g *Globals, fn func(ctx context.Context, b savegame.Backend, defaultSlot string) error) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	b, err := savegame.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return fn(ctx, b, cfg.Storage.Slot)
}

func (c *SavesListCmd) Run(g *Globals) error {
	return withBackend(g, func(ctx context.Context, b savegame.Backend, _ string) error {
		slots, err := b.Slots(ctx)
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			fmt.Println("No saved games")
			return nil
		}
		for _, slot := range slots {
			data, err := b.Load(ctx, slot)
			if err != nil {
				return err
			}
			meta, _, err := store.Decode(data)
			if err != nil {
				fmt.Printf("%-20s %s\n", slot, labelStyle.Render("unreadable: "+err.Error()))
				continue
			}
			fmt.Printf("%-20s year %d/%d  %-20s %d players  saved %s\n",
				slot, meta.Year, meta.TotalYears, meta.Phase, meta.PlayerCount, meta.SavedAt.Local().Format(time.DateTime))
		}
		return nil
	})
}

func (c *SavesShowCmd) Run(g *Globals) error {
	return withBackend(g, func(ctx context.Context, b savegame.Backend, defaultSlot string) error {
		slot := c.Slot
		if slot == "" {
			slot = defaultSlot
		}
		data, err := b.Load(ctx, slot)
		if err != nil {
			return err
		}
		if c.JSON {
			_, err := os.Stdout.Write(append(data, '\n'))
			return err
		}
		meta, state, err := store.Decode(data)
		if err != nil {
			return err
		}
		printSave(os.Stdout, slot, meta, state)
		return nil
	})
}

func (c *SavesDeleteCmd) Run(g *Globals) error {
	return withBackend(g, func(ctx context.Context, b savegame.Backend, _ string) error {
		if err := b.Delete(ctx, c.Slot); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", c.Slot)
		return nil
	})
}

func printSave(w io.Writer, slot string, meta store.Metadata, s *game.State) {
	fmt.Fprintln(w, titleStyle.Render("Save "+slot))
	fmt.Fprintf(w, "%s %s (format %d)\n", labelStyle.Render("version:"), meta.Version, meta.Format)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("saved:  "), meta.SavedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("seed:   "), s.Seed)
	fmt.Fprintf(w, "%s %s, year %d of %d\n", labelStyle.Render("phase:  "), s.Phase, s.Year, s.TotalYears)
	fmt.Fprintln(w)
	for i, p := range s.Players {
		marker := " "
		if i == s.CurrentPlayer {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %-12s score %3d  %s  projects %d  published %d\n",
			marker, p.Name, p.Score, p.Tokens, len(p.Projects), len(p.Published))
	}
	if winner, ok := s.WinnerPlayer(); ok {
		fmt.Fprintf(w, "\nWinner: %s\n", winner.Name)
	}
}
