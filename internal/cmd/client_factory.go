package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/dryrun"
	"github.com/remsfal/remsfal-frontend-sub001/internal/iocontext"
	"github.com/remsfal/remsfal-frontend-sub001/internal/notify"
	"github.com/remsfal/remsfal-frontend-sub001/internal/outfmt"
	"github.com/remsfal/remsfal-frontend-sub001/internal/schema"
	"github.com/remsfal/remsfal-frontend-sub001/internal/toast"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
	"github.com/remsfal/remsfal-frontend-sub001/internal/validation"
)

// session is a configured client plus what commands need to know about it.
type session struct {
	client *api.Client
	// recorder is non-nil in dry-run mode and holds the write requests.
	recorder *dryrun.Recorder
	cfg      config.ClientConfig
	style    urltemplate.Style
}

type clientFactory struct {
	userAgent string
	overrides config.Overrides
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		userAgent: fmt.Sprintf("remsfal-cli/%s", version),
		overrides: config.Overrides{
			BaseURL:   flags.BaseURL,
			Token:     flags.Token,
			Profile:   flags.Profile,
			PathStyle: flags.PathStyle,
			OpenAPI:   flags.OpenAPI,
		},
	}
}

// getSession creates a client from the resolved configuration.
func getSession(ctx context.Context) (*session, error) {
	return newClientFactory().session(ctx)
}

func (f *clientFactory) session(ctx context.Context) (*session, error) {
	cfg, err := config.ResolveClientConfig(f.overrides)
	if err != nil {
		return nil, err
	}

	style := urltemplate.Curly
	if cfg.PathStyle != "" {
		style, err = urltemplate.ParseStyle(cfg.PathStyle)
		if err != nil {
			return nil, err
		}
	}

	s := &session{cfg: cfg, style: style}

	var doer api.Doer = api.NewHTTPClient(flags.Timeout)
	if dryrun.IsEnabled(ctx) {
		s.recorder = dryrun.NewRecorder(doer)
		doer = s.recorder
	}

	opts := []api.Option{
		api.WithDoer(doer),
		api.WithToken(cfg.Token),
		api.WithUserAgent(f.userAgent),
		api.WithPathStyle(style),
		api.WithEmitter(newToastBus(ctx)),
		api.WithBaseURLValidation(validation.ValidateBaseURL),
		api.WithTracerProvider(tracing.TracerProvider()),
	}
	if cfg.OpenAPI != "" {
		v, err := schema.Load(ctx, cfg.OpenAPI)
		if err != nil {
			return nil, err
		}
		opts = append(opts, api.WithValidator(v))
	}
	if key := strings.TrimSpace(flags.IdempotencyKey); key != "" {
		if strings.EqualFold(key, "auto") {
			opts = append(opts, api.WithIdempotencyKeys(newIdempotencyKey))
		} else {
			opts = append(opts, api.WithIdempotencyKeys(func() string { return key }))
		}
	}

	s.client = api.New(cfg.BaseURL, opts...)
	return s, nil
}

// newToastBus returns the emitter for a new client. Notifications are
// rendered to stderr, as JSON lines in structured output mode, unless
// --quiet or --silent is set.
func newToastBus(ctx context.Context) notify.Emitter {
	if flags.Quiet || flags.Silent {
		return notify.Discard
	}
	lang := flags.Lang
	if lang == "" {
		lang = toast.LanguageFromEnv()
	}
	renderer := toast.NewRenderer(iocontext.GetIO(ctx).ErrOut, toast.NewTranslator(lang))
	renderer.JSON = outfmt.IsStructured(ctx)

	bus := notify.NewMemoryBus()
	registerToastStop(renderer.Attach(bus))
	return bus
}
