package cli_test

// Coverage Notes:
// - Commands are exercised end to end through cobra with a fake Env, the
//   same way main wires them, so flag parsing and validation order are
//   covered too.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkraev/engru/internal/cli"
	"github.com/mkraev/engru/internal/config"
	"github.com/mkraev/engru/internal/lang"
	"github.com/mkraev/engru/internal/translate"
)

// runTranslateCmd executes the translate command with the given env, args,
// and optional stdin, returning stdout and the error.
func runTranslateCmd(t *testing.T, env *cli.Env, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.TranslateCmd(env)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	// Cobra requires SilenceUsage per command when run standalone.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return stdout.String(), err
}

// newTestEnv builds an Env with fakes and captured stderr.
func newTestEnv(factory *fakeBackendFactory, cfg config.Config, envVars map[string]string) (*cli.Env, *bytes.Buffer) {
	var stderr bytes.Buffer
	env := cli.NewEnv(
		cli.WithStderr(&stderr),
		cli.WithGetenv(envMap(envVars)),
		cli.WithConfigLoader(&fakeConfigLoader{cfg: cfg}),
		cli.WithBackendFactory(factory),
	)
	return env, &stderr
}

func TestTranslateCmd_FileToDerivedOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "article.txt")
	if err := os.WriteFile(input, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, stderr := newTestEnv(factory, config.Config{}, nil)

	stdout, err := runTranslateCmd(t, env, "", input)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty (file output)", stdout)
	}

	wantPath := filepath.Join(dir, "article.ru.txt")
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("derived output file missing: %v", err)
	}
	if string(data) != "HELLO WORLD" {
		t.Errorf("output = %q, want %q", data, "HELLO WORLD")
	}
	if factory.googleCalls != 1 {
		t.Errorf("google backend built %d times, want 1", factory.googleCalls)
	}
	if !strings.Contains(stderr.String(), "Saved translation to") {
		t.Errorf("stderr missing save notice:\n%s", stderr.String())
	}
}

func TestTranslateCmd_StdinToStdout(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, stderr := newTestEnv(factory, config.Config{}, nil)

	stdout, err := runTranslateCmd(t, env, "hello world")
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if strings.TrimSuffix(stdout, "\n") != "HELLO WORLD" {
		t.Errorf("stdout = %q, want translated text", stdout)
	}
	if !strings.Contains(stderr.String(), "> Translating...") {
		t.Errorf("stderr missing run description:\n%s", stderr.String())
	}
}

func TestTranslateCmd_MissingInputFile(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	_, err := runTranslateCmd(t, env, "", filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, cli.ErrFileNotFound) {
		t.Errorf("got %v, want ErrFileNotFound", err)
	}
}

func TestTranslateCmd_OpenAIRequiresAPIKey(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{openai: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	_, err := runTranslateCmd(t, env, "hello", "--provider", "openai")
	if !errors.Is(err, cli.ErrAPIKeyMissing) {
		t.Errorf("got %v, want ErrAPIKeyMissing", err)
	}
	if factory.openaiCalls != 0 {
		t.Errorf("openai backend built %d times, want 0", factory.openaiCalls)
	}
}

func TestTranslateCmd_OpenAIProviderUsesKey(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{openai: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, map[string]string{cli.EnvAPIKey: "sk-test"})

	stdout, err := runTranslateCmd(t, env, "hello", "--provider", "openai")
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if strings.TrimSuffix(stdout, "\n") != "HELLO" {
		t.Errorf("stdout = %q, want HELLO", stdout)
	}
	if factory.openaiCalls != 1 || factory.lastAPIKey != "sk-test" {
		t.Errorf("openai factory calls = %d key = %q, want 1 call with sk-test",
			factory.openaiCalls, factory.lastAPIKey)
	}
}

func TestTranslateCmd_ProviderFromConfig(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{openai: &fakeBackend{}}
	env, _ := newTestEnv(factory,
		config.Config{Provider: "openai"},
		map[string]string{cli.EnvAPIKey: "sk-test"})

	if _, err := runTranslateCmd(t, env, "hello"); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if factory.openaiCalls != 1 {
		t.Errorf("openai backend built %d times, want 1 (provider from config)", factory.openaiCalls)
	}
}

func TestTranslateCmd_InvalidProvider(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	_, err := runTranslateCmd(t, env, "hello", "--provider", "yandex")
	if !errors.Is(err, cli.ErrInvalidProvider) {
		t.Errorf("got %v, want ErrInvalidProvider", err)
	}
}

func TestTranslateCmd_RejectsSameLanguagePair(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	_, err := runTranslateCmd(t, env, "hello", "--source", "en", "--target", "en")
	if !errors.Is(err, lang.ErrInvalid) {
		t.Errorf("got %v, want lang.ErrInvalid", err)
	}
}

func TestTranslateCmd_PassesLanguagePairToBackend(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	if _, err := runTranslateCmd(t, env, "hallo", "--source", "de", "--target", "fr"); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if factory.lastSource != "de" || factory.lastTarget != "fr" {
		t.Errorf("pair = %s→%s, want de→fr", factory.lastSource, factory.lastTarget)
	}
}

func TestTranslateCmd_BackendFailureSurfacesExhaustedRetries(t *testing.T) {
	t.Parallel()

	factory := &fakeBackendFactory{google: &fakeBackend{err: errors.New("endpoint down")}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	// max-retries 1 keeps the fixed 10s delay out of the test: the delay
	// only runs between attempts.
	_, err := runTranslateCmd(t, env, "hello", "--max-retries", "1")
	if !errors.Is(err, translate.ErrRetriesExhausted) {
		t.Errorf("got %v, want ErrRetriesExhausted", err)
	}
}

func TestTranslateCmd_ExistingOutputNotOverwritten(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "article.txt")
	if err := os.WriteFile(input, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(dir, "article.ru.txt")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	factory := &fakeBackendFactory{google: &fakeBackend{}}
	env, _ := newTestEnv(factory, config.Config{}, nil)

	_, err := runTranslateCmd(t, env, "", input)
	if !errors.Is(err, cli.ErrOutputExists) {
		t.Fatalf("got %v, want ErrOutputExists", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "old" {
		t.Errorf("existing output was overwritten: %q", data)
	}
}

func TestTranslateCmd_ConfigSettingsApply(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	factory := &fakeBackendFactory{google: backend}
	env, stderr := newTestEnv(factory,
		config.Config{LogPrefix: "[cfg]", Proxy: "http://proxy:3128"}, nil)

	if _, err := runTranslateCmd(t, env, "hello"); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), "[cfg]> Translated: 100%.") {
		t.Errorf("stderr missing config log prefix:\n%s", stderr.String())
	}
	if factory.lastProxy != "http://proxy:3128" {
		t.Errorf("proxy = %q, want config value", factory.lastProxy)
	}
}
