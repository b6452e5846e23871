package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"wonderland/internal/cli"
	"wonderland/internal/cli/scheme/colours"
	"wonderland/internal/config"
	"wonderland/internal/domain/story"
	"wonderland/internal/logging"
	"wonderland/internal/story/generator"
	"wonderland/internal/story/models"
	"wonderland/internal/story/nest"
	"wonderland/internal/story/tts"

	"github.com/charmbracelet/glamour/styles"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	configFile string
	readAloud  bool
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:   "wonderland",
		Short: "🦄 The Magic Storyteller",
		Long: `
┌─────────────────────────────────────┐
│  🦄 The Magic Storyteller           │
│  Pick 3 magic words, get a story!   │
│  Read aloud for kids 👶✨           │
└─────────────────────────────────────┘

Type three words and a story model writes a short, funny story with them.
The story page resets itself after 50 seconds, ready for the next one.
		`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(ctx)
		},
	}

	tellCmd := &cobra.Command{
		Use:   "tell <word> <word> <word>",
		Short: "📖 Write one story in the terminal",
		Long:  "Stream a story for three magic words to stdout, optionally reading it aloud",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTell(ctx, story.Words{First: args[0], Second: args[1], Third: args[2]})
		},
	}

	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "🎙️ List speech engines and voices",
		Long:  "Show the speech engines available on this platform and the voices of the configured one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoices()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default wonderland.yaml in the user config dir)")
	rootCmd.PersistentFlags().String("model", "", "story model name")
	rootCmd.PersistentFlags().String("driver", "", "story model driver (ollama, openai)")
	rootCmd.PersistentFlags().String("tts", "", "speech engine (auto, espeak, say, sapi, googleclassic, mock)")
	tellCmd.Flags().BoolVarP(&readAloud, "read", "r", false, "read the story aloud when it is done")

	_ = viper.BindPFlag("model.name", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("model.driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("tts.type", rootCmd.PersistentFlags().Lookup("tts"))

	rootCmd.AddCommand(tellCmd, voicesCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		colours.Error.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context) error {
	closer, err := setupLog(io.Discard)
	if err != nil {
		return err
	}
	defer closer()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	writer, err := newWriter(ctx, cfg)
	if err != nil {
		return err
	}
	speaker := tts.NewEmitter(cfg.TTS, logrus.StandardLogger())

	m := nest.New(ctx, writer, speaker, nest.WithLogger(logrus.StandardLogger()))
	if _, err := nest.NewProgram(ctx, m).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	fmt.Println(colours.Warning.Sprint("👋 Goodbye! Sweet dreams! 🌙"))
	return nil
}

func runTell(ctx context.Context, words story.Words) error {
	closer, err := setupLog(os.Stderr)
	if err != nil {
		return err
	}
	defer closer()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	writer, err := newWriter(ctx, cfg)
	if err != nil {
		return err
	}

	opts := cli.TellOptions{GlamourStyle: styles.NoTTYStyle}
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		opts.GlamourStyle = styles.AutoStyle
		if w, _, err := term.GetSize(fd); err == nil {
			opts.WordWrap = min(w, 80)
		}
	}

	item, err := cli.Tell(ctx, os.Stdout, writer, words, opts)
	switch {
	case errors.Is(err, story.ErrMissingWords):
		colours.Warning.Println("⚠️  " + cli.MissingWordsMessage)
		return err
	case errors.Is(err, generator.ErrServiceUnavailable):
		colours.Error.Println(cli.SleepingMessage)
		return err
	case err != nil:
		return err
	}

	if !readAloud {
		return nil
	}

	colours.Info.Println("🔊 Reading aloud...")
	speaker := tts.NewEmitter(cfg.TTS, logrus.StandardLogger())
	if err := speaker.Say(ctx, item.Text); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runVoices() error {
	closer, err := setupLog(os.Stderr)
	if err != nil {
		return err
	}
	defer closer()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cli.ListEngines(os.Stdout)
	fmt.Println()

	engine, err := tts.NewEngine(cfg.TTS)
	if err != nil {
		return fmt.Errorf("speech engine %q: %w", cfg.TTS.Type, err)
	}
	defer engine.Close()

	return cli.ListVoices(os.Stdout, engine, cfg.TTS.Voice)
}

func newWriter(ctx context.Context, cfg config.Config) (*generator.Generator, error) {
	m, err := models.Create(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("story model: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"driver": cfg.Model.Driver,
		"model":  cfg.Model.Name,
	}).Info("story model ready")
	return generator.New(m, generator.WithLogger(logrus.StandardLogger())), nil
}

func setupLog(fallback io.Writer) (func() error, error) {
	c, err := config.LoadLog()
	if err != nil {
		return nil, err
	}
	return logging.Setup(c, fallback)
}
