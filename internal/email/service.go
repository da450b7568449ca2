package email

import "context"

// Service is the complete email collaborator: gateway operations plus the
// LLM-backed composer and the organizer.
type Service struct {
	*Gateway
	*Composer
	organizer *Organizer
}

// NewService assembles the email collaborator.
func NewService(gw *Gateway, composer *Composer) *Service {
	return &Service{
		Gateway:   gw,
		Composer:  composer,
		organizer: NewOrganizer(gw),
	}
}

// Organize executes a free-form organization command.
func (s *Service) Organize(ctx context.Context, query string) (string, error) {
	return s.organizer.Apply(ctx, query)
}
