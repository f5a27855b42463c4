package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkraev/engru/internal/config"
	"github.com/mkraev/engru/internal/lang"
	"github.com/mkraev/engru/internal/translate"
)

// EnvAPIKey is the environment variable holding the OpenAI API key.
const EnvAPIKey = "OPENAI_API_KEY"

// translateFlags collects the translate command's flag values.
type translateFlags struct {
	output      string
	provider    string
	batchSize   int
	maxRetries  int
	logPrefix   string
	description string
	source      string
	target      string
}

// TranslateCmd creates the translate command.
// The env parameter provides injectable dependencies for testing.
func TranslateCmd(env *Env) *cobra.Command {
	var flags translateFlags

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a text file or stdin",
		Long: `Translate English text to Russian.

The text is split into paragraph-aligned chunks of at most 5000 characters,
submitted to the backend in bounded batches, and reassembled in order.
Failed batches are retried with a fixed delay; progress is reported to stderr.

Input comes from the file argument, or from stdin when the argument is "-"
or omitted. Stdin input is written to stdout unless --output is given.

Backends: google (web endpoint, no key, default) and openai
(requires OPENAI_API_KEY).`,
		Example: `  engru translate article.txt
  engru translate article.txt -o article.ru.txt
  engru translate article.txt --provider openai
  cat article.txt | engru translate
  engru translate chapter.txt --batch-size 10 --max-retries 3
  engru translate notes.txt --source en --target de`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := ""
			if len(args) == 1 {
				inputPath = args[0]
			}
			return runTranslate(cmd, env, inputPath, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: <input>.<target>.<ext>, stdout for stdin input)")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "Translation backend: google, openai (default: google)")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", translate.DefaultBatchSize, "Chunks per backend call")
	cmd.Flags().IntVar(&flags.maxRetries, "max-retries", translate.DefaultMaxRetries, "Total attempts per batch")
	cmd.Flags().StringVar(&flags.logPrefix, "log-prefix", translate.DefaultLogPrefix, "Marker prefixed to progress lines")
	cmd.Flags().StringVar(&flags.description, "description", "Translating...", "Run description logged for operator visibility")
	cmd.Flags().StringVar(&flags.source, "source", lang.DefaultSource, "Source language (ISO 639-1 code)")
	cmd.Flags().StringVar(&flags.target, "target", lang.DefaultTarget, "Target language (ISO 639-1 code)")

	return cmd
}

// runTranslate executes the translation pipeline.
// Validation order: config -> languages -> provider -> input -> API key
func runTranslate(cmd *cobra.Command, env *Env, inputPath string, flags translateFlags) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. Config file and env fallbacks.
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	// 2. Language pair.
	if err := lang.Validate(flags.source); err != nil {
		return err
	}
	if err := lang.Validate(flags.target); err != nil {
		return err
	}
	if lang.BaseCode(flags.source) == lang.BaseCode(flags.target) {
		return fmt.Errorf("source and target languages must differ: %w", lang.ErrInvalid)
	}

	// 3. Provider: flag wins over config, config over the google default.
	providerName := flags.provider
	if providerName == "" {
		providerName = cfg.Provider
	}
	var provider Provider
	if providerName == "" {
		provider = GoogleProvider
	} else if provider, err = ParseProvider(providerName); err != nil {
		return err
	}

	// 4. Input text.
	text, fromStdin, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}

	// 5. Backend (API key only checked for the provider that needs one).
	backend, err := newBackend(env, provider, cfg.Proxy, flags.source, flags.target)
	if err != nil {
		return err
	}

	// === TRANSLATION ===

	tr, err := translate.New(backend, translatorOptions(env, cfg, cmd, flags)...)
	if err != nil {
		return err
	}

	translated, err := tr.Run(ctx, text, flags.description)
	if err != nil {
		return err
	}

	// === OUTPUT ===

	if fromStdin && flags.output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), translated)
		return err
	}

	defaultName := deriveOutputPath(inputPath, lang.BaseCode(flags.target))
	outputPath := config.ResolveOutputPath(flags.output, cfg.OutputDir, defaultName)
	if err := writeFileAtomic(outputPath, translated); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Saved translation to %s\n", outputPath)
	return nil
}

// readInput loads the text to translate from a file or stdin.
func readInput(cmd *cobra.Command, inputPath string) (text string, fromStdin bool, err error) {
	if inputPath == "" || inputPath == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", true, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if _, err := os.Stat(inputPath); err != nil {
		return "", false, fmt.Errorf("%s: %w", inputPath, ErrFileNotFound)
	}

	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-specified input file
	if err != nil {
		return "", false, fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), false, nil
}

// newBackend builds the backend for the chosen provider.
func newBackend(env *Env, provider Provider, proxy, source, target string) (translate.BatchTranslator, error) {
	if provider.IsOpenAI() {
		apiKey := env.Getenv(EnvAPIKey)
		if apiKey == "" {
			return nil, ErrAPIKeyMissing
		}
		return env.BackendFactory.NewOpenAI(apiKey, source, target), nil
	}
	return env.BackendFactory.NewGoogle(proxy, source, target), nil
}

// translatorOptions merges flag, config, and default translator settings.
// An explicitly set flag wins over the config file value.
func translatorOptions(env *Env, cfg config.Config, cmd *cobra.Command, flags translateFlags) []translate.Option {
	batchSize := flags.batchSize
	if !cmd.Flags().Changed("batch-size") && cfg.BatchSize > 0 {
		batchSize = cfg.BatchSize
	}
	maxRetries := flags.maxRetries
	if !cmd.Flags().Changed("max-retries") && cfg.MaxRetries > 0 {
		maxRetries = cfg.MaxRetries
	}
	logPrefix := flags.logPrefix
	if !cmd.Flags().Changed("log-prefix") && cfg.LogPrefix != "" {
		logPrefix = cfg.LogPrefix
	}

	logLine := func(msg string) {
		fmt.Fprintln(env.Stderr, msg)
	}

	return []translate.Option{
		translate.WithBatchSize(batchSize),
		translate.WithMaxRetries(maxRetries),
		translate.WithLogPrefix(logPrefix),
		translate.WithInfoLog(logLine),
		translate.WithErrorLog(logLine),
	}
}
