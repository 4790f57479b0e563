package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"textend/internal/cards"
	"textend/internal/content"
	"textend/internal/engine"
	"textend/internal/models"
)

func newRenderCmd() *cobra.Command {
	var (
		markdown       bool
		single         bool
		hydrate        bool
		playerEndpoint string
		githubToken    string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a post body to HTML",
		Long: `Runs a post body through the content pipeline and prints the HTML.
Markdown is converted first unless --markdown=false. With --hydrate, card
markers are filled from the GitHub and Gitee APIs (single view only).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			format := models.BodyFormatHTML
			if markdown {
				format = models.BodyFormatMarkdown
			}

			var opts []engine.Option
			if hydrate {
				client := cards.NewClient(cards.WithGitHubToken(githubToken))
				opts = append(opts, engine.WithHydrator(cards.NewHydrator(client, nil)))
			}
			eng := engine.New(content.New(content.WithPlayerEndpoint(playerEndpoint)), opts...)

			fmt.Fprintln(cmd.OutOrStdout(), eng.Process(cmd.Context(), src, format, single))
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", true, "treat the input as Markdown")
	cmd.Flags().BoolVar(&single, "single", true, "render as a single article view")
	cmd.Flags().BoolVar(&hydrate, "hydrate", false, "fetch repository cards for x-github markers")
	cmd.Flags().StringVar(&playerEndpoint, "player", content.DefaultPlayerEndpoint, "player path for video iframes")
	cmd.Flags().StringVar(&githubToken, "github-token", "", "GitHub API token")
	return cmd
}

func newHydrateCmd() *cobra.Command {
	var githubToken string

	cmd := &cobra.Command{
		Use:   "hydrate [file]",
		Short: "Fill x-github markers of an HTML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			h := cards.NewHydrator(cards.NewClient(cards.WithGitHubToken(githubToken)), nil)
			out, err := h.Hydrate(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("hydrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&githubToken, "github-token", "", "GitHub API token")
	return cmd
}
