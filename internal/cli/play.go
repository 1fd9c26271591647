package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"timed-quiz-service/internal/client"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/logging"
	"timed-quiz-service/internal/present"
	"timed-quiz-service/internal/quiz"
)

// NewPlayCmd runs the quiz in the terminal against a running server.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		baseURL string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the timed quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.Client.BaseURL = baseURL
			}

			session := quiz.NewSession(quiz.WithBudget(config.Seconds(cfg.Client.Duration, quiz.DefaultBudget)))
			defer session.Close()

			renderer := present.TextRenderer{Color: !noColor, Clear: !noColor}
			term := present.NewTerminal(session, cmd.InOrStdin(), cmd.OutOrStdout(), renderer)
			return runPlay(cmd.Context(), session, client.New(cfg.Client.BaseURL, nil), term)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "backend origin (overrides VITE_API_BASE_URL / API_BASE_URL)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colours and screen clearing")
	return cmd
}

func runPlay(ctx context.Context, session *quiz.Session, src quiz.Source, term *present.Terminal) error {
	go func() {
		if err := session.Start(ctx, src); err != nil {
			logging.L().WithError(err).Debug("failed to load questions")
		}
	}()

	err := term.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
