package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/osteo/cartella/internal/config"
	"github.com/osteo/cartella/internal/domain/history"
	"github.com/osteo/cartella/internal/domain/patient"
	"github.com/osteo/cartella/internal/domain/visit"
	"github.com/osteo/cartella/internal/platform/auth"
	"github.com/osteo/cartella/internal/platform/db"
	"github.com/osteo/cartella/internal/platform/metrics"
	"github.com/osteo/cartella/internal/platform/middleware"
	"github.com/osteo/cartella/pkg/itdate"
)

func main() {
	root := &cobra.Command{
		Use:   "cartella-server",
		Short: "Clinical records API server for an osteopathy practice",
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL:      cfg.DatabaseURL,
				MaxConns: cfg.DBMaxConns,
				MinConns: cfg.DBMinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true

			e.Use(middleware.Recovery(logger))
			e.Use(middleware.RequestID())
			e.Use(middleware.Logger(logger))
			e.Use(metrics.Middleware())
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins: cfg.CORSOrigins,
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
			}))

			e.GET("/health", func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{
					"status":   "ok",
					"practice": cfg.PracticeName,
				})
			})
			e.GET("/metrics", metrics.Handler())

			api := e.Group("/api/v1")
			if cfg.AuthSecret != "" {
				api.Use(auth.JWTMiddleware(auth.JWTConfig{Secret: []byte(cfg.AuthSecret), Issuer: "cartella"}))
			} else {
				logger.Warn().Msg("AUTH_SECRET not set, running with development auth")
				api.Use(auth.DevAuthMiddleware())
			}

			patientSvc := patient.NewService(patient.NewRepo(pool))
			historySvc := history.NewService(history.NewRepo(pool))
			visitSvc := visit.NewService(visit.NewRepo(pool))

			patient.NewHandler(patientSvc).RegisterRoutes(api)
			history.NewHandler(historySvc).RegisterRoutes(api)
			visit.NewHandler(visitSvc).RegisterRoutes(api)

			shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()

			<-shutdownCtx.Done()
			logger.Info().Msg("shutting down")

			timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(timeoutCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, cfg.MigrationsDir).Up(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("applied %d migration(s)\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, cfg.MigrationsDir).Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied " + s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
			}
			return nil
		},
	})

	return cmd
}

// seedCmd inserts a demo patient with clinical history and one visit, going
// through the services so every rule applies.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx := cmd.Context()

			patientSvc := patient.NewService(patient.NewRepo(pool))
			historySvc := history.NewService(history.NewRepo(pool))
			visitSvc := visit.NewService(visit.NewRepo(pool))

			birth, _ := itdate.Parse("15/03/1985")
			consent, _ := itdate.Parse("01/06/2024")
			p := &patient.Patient{
				FirstName: "Luca",
				LastName:  "Verdi",
				BirthDate: &birth,
				Phone:     "3331234567",
				Address:   &patient.Address{Street: "Via Roma 1", City: "Torino", Province: "TO", PostalCode: "10100", Country: "Italia"},
				Anthro:    &patient.Anthropometrics{HeightCM: 180, WeightKG: 75.5, BMI: 23.3, DominantSide: "destro"},
				Privacy:   &patient.PrivacyConsents{Treatment: true, DataProcessing: true, ConsentDate: &consent},
			}
			if err := patientSvc.CreatePatient(ctx, p); err != nil {
				return fmt.Errorf("seed patient: %w", err)
			}

			start, _ := itdate.Parse("10/01/2023")
			h := &history.ClinicalHistory{
				PatientID: p.ID,
				Chronic:   &history.ChronicConditions{HasDrugAllergies: true, DrugAllergies: []string{"penicillin"}},
				Lifestyle: &history.Lifestyle{SmokingStatus: "no", DoesSport: true, Sports: "nuoto", SportFrequency: "settimanale"},
				Therapies: []history.Therapy{
					{DrugName: "Eutirox", Dosage: "50mg", StartDate: &start, IsOngoing: true},
				},
			}
			if err := historySvc.Save(ctx, h); err != nil {
				return fmt.Errorf("seed history: %w", err)
			}

			visitDate, _ := itdate.Parse("01/06/2024")
			v := &visit.Visit{
				PatientID:    p.ID,
				VisitDate:    visitDate,
				Practitioner: "Dr. Rossi",
				Current:      &visit.CurrentData{WeightKG: 75.5, BMI: 23.3, BloodPressure: "120/80"},
				Reason: &visit.ConsultationReason{
					Main: &visit.ReasonDetail{Description: "lombalgia", Onset: "2 settimane", VAS: 6},
				},
				Apparatus: &visit.ApparatusEvaluation{
					MuscoloScheletrico: &visit.MuscoloScheletrico{Dolore: true, Sede: "lombare", VAS: 6},
				},
			}
			if err := visitSvc.CreateVisit(ctx, v); err != nil {
				return fmt.Errorf("seed visit: %w", err)
			}

			fmt.Printf("seeded patient %s with history and one visit\n", p.ID)
			return nil
		},
	}
}

func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}
