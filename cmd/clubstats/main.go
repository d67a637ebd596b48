package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/config"
	"github.com/ryabkov82/clubstats/internal/pipeline"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Output struct {
	Success     bool     `json:"success"`
	OutputFiles []string `json:"output_files,omitempty"`
	Error       string   `json:"error,omitempty"`
	Code        string   `json:"code,omitempty"`
	Duration    string   `json:"duration"`
	RowCount    int64    `json:"row_count,omitempty"`
}

type app struct {
	configPath string
	envFile    string
	root       string
	verbose    bool
	cfg        *config.Config
	out        io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "clubstats",
		Short:         "Статистика клуба по выгрузкам Excel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML файл конфигурации (по умолчанию $CLUBSTATS_CONFIG)")
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "файл переменных окружения")
	root.PersistentFlags().StringVar(&a.root, "root", "", "корень проекта для относительных путей")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "подробный журнал")

	root.AddCommand(
		a.newMembersCmd(),
		a.newTrendCmd(),
		a.newActivityCmd(),
		a.newRemindCmd(),
	)
	return root
}

func (a *app) setup() error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	start := time.Now()
	if err := config.LoadEnv(a.envFile); err != nil {
		return a.fail(start, err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return a.fail(start, err)
	}
	if a.root != "" {
		cfg.Root = a.root
	}
	if a.verbose {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	a.cfg = cfg
	return nil
}

func (a *app) newMembersCmd() *cobra.Command {
	var (
		year  int
		input string
	)
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Возраст участников: книга Data/Stat, график и сводка",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, r *pipeline.Runner) (*pipeline.Result, error) {
				return r.Members(ctx, year, input)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year()-1, "отчётный год")
	cmd.Flags().StringVar(&input, "input", "", "выгрузка участников (.xlsx)")
	return cmd
}

func (a *app) newTrendCmd() *cobra.Command {
	var (
		years  []int
		output string
	)
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Сравнение возрастных групп за несколько лет",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, r *pipeline.Runner) (*pipeline.Result, error) {
				return r.Trend(ctx, years, output)
			})
		},
	}
	cmd.Flags().IntSliceVar(&years, "years", nil, "годы через запятую, файлы берутся из конфигурации")
	cmd.Flags().StringVar(&output, "out", "", "результирующая книга")
	return cmd
}

func (a *app) newActivityCmd() *cobra.Command {
	var (
		year  int
		input string
	)
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Посещаемость молодёжи по дням недели",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, r *pipeline.Runner) (*pipeline.Result, error) {
				return r.Activity(ctx, year, input)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year()-1, "отчётный год")
	cmd.Flags().StringVar(&input, "input", "", "выгрузка активностей (.xlsx)")
	return cmd
}

func (a *app) newRemindCmd() *cobra.Command {
	var membersFile, notPaidFile, output string
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Адреса участников без оплаты взноса",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, r *pipeline.Runner) (*pipeline.Result, error) {
				return r.Remind(ctx, membersFile, notPaidFile, output)
			})
		},
	}
	cmd.Flags().StringVar(&membersFile, "members", "", "выгрузка участников (.xlsx)")
	cmd.Flags().StringVar(&notPaidFile, "not-paid", "", "список неоплативших (.xlsx)")
	cmd.Flags().StringVar(&output, "out", "", "результирующий csv")
	return cmd
}

func (a *app) run(ctx context.Context, fn func(context.Context, *pipeline.Runner) (*pipeline.Result, error)) error {
	start := time.Now()

	runner, err := pipeline.New(a.cfg)
	if err != nil {
		return a.fail(start, err)
	}
	res, err := fn(ctx, runner)
	if err != nil {
		return a.fail(start, err)
	}

	emitJSON(a.out, Output{
		Success:     true,
		OutputFiles: res.OutputFiles,
		RowCount:    res.RowCount,
		Duration:    time.Since(start).String(),
	})
	return nil
}

func (a *app) fail(start time.Time, err error) error {
	log.WithField("code", apperr.CodeOf(err)).Error(err)
	emitJSON(a.out, Output{
		Success:  false,
		Error:    fmt.Sprintf("Ошибка: %v", err),
		Code:     string(apperr.CodeOf(err)),
		Duration: time.Since(start).String(),
	})
	return err
}

func emitJSON(w io.Writer, out Output) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Ошибка вывода JSON: %v", err)
	}
}
