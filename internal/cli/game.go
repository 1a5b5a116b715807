package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game lifecycle commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameFindCmd())
	cmd.AddCommand(newGameRenameCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameArchiveCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var name, description string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new recruiting game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":            name,
				"description":     description,
				"maximum_players": maxPlayers,
			}
			var result CreateGameResult

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Game description (required)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 6, "Maximum players")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a live game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := gameIDArg(args[0])
			if err != nil {
				return err
			}

			var result Game
			if err := client.Get("/api/v1/games/"+id, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameFindCmd() *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find a game by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := "recruiting"
			if archived {
				phase = "archived"
			}

			var result Game
			path := "/api/v1/games/" + phase + "?name=" + url.QueryEscape(args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Search the archive instead of recruiting games")

	return cmd
}

func newGameRenameCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename a recruiting game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := gameIDArg(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{"name": name}
			if err := client.Patch("/api/v1/games/"+id, req, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Renamed game " + id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a recruiting game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := gameIDArg(args[0])
			if err != nil {
				return err
			}

			if err := client.Post("/api/v1/games/"+id+"/start", nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Started game " + id)
			return nil
		},
	}
}

func newGameArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a live game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := gameIDArg(args[0])
			if err != nil {
				return err
			}

			if err := client.Post("/api/v1/games/"+id+"/archive", nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Archived game " + id)
			return nil
		},
	}
}

func gameIDArg(raw string) (string, error) {
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return "", fmt.Errorf("invalid game id %q", raw)
	}
	return raw, nil
}
