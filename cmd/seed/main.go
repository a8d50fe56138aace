package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pmhscreen/internal/app"
	"pmhscreen/internal/config"
	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/repository"
	"pmhscreen/internal/service"
)

// demoAnswers covers each classification rule and several care settings
var demoAnswers = []map[string]string{
	{"PHQ2_Q1": "3", "PHQ2_Q2": "2", "BPG_TALK": "2", "FLU_SRC": "1"},
	{"PHQ2_Q1": "0", "PHQ2_Q2": "1", "BPG_MH": "2", "FLU_SRC": "2"},
	{"PHQ2_Q1": "1", "PHQ2_Q2": "1", "PRE_EXER": "1", "OWGT_OBS": "2", "FLU_SRC": "3"},
	{"PHQ2_Q1": "0", "PHQ2_Q2": "0", "HTH_GEN": "2", "PRE_EXER": "2", "FLU_SRC": "5"},
	{"PHQ2_Q1": "NA", "PRE_RX": "2", "PRE_RX_MH": "Not sure", "FLU_SRC": "4"},
}

const demoPassword = "demo-password"

func main() {
	var users int

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Register demo respondents and submit sample screenings",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Server.Mode)
			if err != nil {
				return err
			}
			defer log.Sync()

			return seed(cmd, cfg, log, users)
		},
	}
	cmd.Flags().IntVar(&users, "users", 3, "number of demo respondents")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func seed(cmd *cobra.Command, cfg *config.Config, log *logger.Logger, users int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	authSvc := service.NewAuthService(stores.Users, cfg.Auth.JWTSecret.Value(), cfg.Auth.TokenTTL, log)
	screeningSvc := service.NewScreeningService(stores.Screenings, nil, nil, log)

	stored := 0
	for i := 0; i < users; i++ {
		email := fmt.Sprintf("demo%d@example.com", i+1)
		user, err := authSvc.Register(ctx, model.RegisterRequest{Email: email, Password: demoPassword, FirstName: "Demo"})
		if errors.Is(err, repository.ErrEmailTaken) {
			existing, err := stores.Users.GetByEmail(ctx, email)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("user %s reported taken but not found", email)
			}
			user = existing
		} else if err != nil {
			return fmt.Errorf("register %s: %w", email, err)
		}

		for j, values := range demoAnswers {
			if (i+j)%2 == 1 {
				continue
			}
			result, err := screeningSvc.Submit(ctx, user.ID, toRaw(values))
			if err != nil {
				return err
			}
			if !result.Stored {
				return fmt.Errorf("store screening: %w", result.StoreErr)
			}
			stored++
		}
	}

	log.Info("seed complete", "users", users, "screenings", stored)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users and %d screenings (password %q)\n", users, stored, demoPassword)
	return nil
}

func toRaw(values map[string]string) map[string]*string {
	raw := make(map[string]*string, len(values))
	for k, v := range values {
		v := v
		raw[k] = &v
	}
	return raw
}
