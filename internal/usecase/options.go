package usecase

import (
	"log/slog"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

type settings struct {
	log      *slog.Logger
	resolver *domain.VarResolver
}

// Option configures a use case.
type Option func(*settings)

// WithLogger sets the logger used for event logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithVarResolver overrides the resolver used to expand {{vars}}.
func WithVarResolver(vr *domain.VarResolver) Option {
	return func(s *settings) {
		if vr != nil {
			s.resolver = vr
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		log:      slog.New(slog.DiscardHandler),
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
