package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/wadjakorntonsri/go-shortlink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-shortlink/pkg/ports"
)

type LinkService struct {
	repo       ports.LinkRepository
	validate   *validator.Validate
	codeLength int
}

// NewLinkService builds a service that allocates codes of codeLength
// characters (DefaultCodeLength if <= 0).
func NewLinkService(repo ports.LinkRepository, codeLength int) *LinkService {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}

	return &LinkService{
		repo:       repo,
		validate:   validator.New(),
		codeLength: codeLength,
	}
}

// NormalizeURL accepts an absolute URL as-is, prepends http:// to a bare
// domain, and rejects everything else. The absolute-URL check runs first so a
// scheme-less domain is not mistaken for garbage.
func (s *LinkService) NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrInvalidURL
	}

	if s.isAbsoluteURL(raw) {
		return raw, nil
	}

	if s.validate.Var(raw, "fqdn") == nil {
		withScheme := "http://" + raw
		if s.isAbsoluteURL(withScheme) {
			return withScheme, nil
		}
	}

	return "", errors.Wrapf(domain.ErrInvalidURL, "normalize %q", raw)
}

// isAbsoluteURL requires a scheme (the validator rule) and a host: the rule
// alone admits opaque URIs like "foo:bar" or "example.com:8080" (scheme
// "example.com", opaque "8080"), which have no address to redirect to.
func (s *LinkService) isAbsoluteURL(raw string) bool {
	if s.validate.Var(raw, "url") != nil {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Host != ""
}

// CreateLink validates the URL and persists a new link with a fresh short
// code and deletion token. A uniqueness conflict from the store (a rare
// deletion-token collision, or losing an allocation race) is retried with
// fresh codes rather than surfaced.
func (s *LinkService) CreateLink(ctx context.Context, rawURL string) (*domain.Link, error) {
	target, err := s.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	for {
		code, allocErr := s.allocateShortCode(ctx)
		if allocErr != nil {
			return nil, allocErr
		}
		token, tokenErr := GenerateCode(DeletionTokenLength)
		if tokenErr != nil {
			return nil, tokenErr
		}

		link := &domain.Link{
			ShortCode:     code,
			TargetURL:     target,
			DeletionToken: token,
			Clicks:        0,
			CreatedAt:     time.Now().Unix(),
		}

		switch createErr := s.repo.Create(ctx, link); {
		case createErr == nil:
			return link, nil
		case errors.Is(createErr, domain.ErrConflict):
			continue
		default:
			return nil, createErr
		}
	}
}

// allocateShortCode loops until it finds an unused code. Unbounded: at the
// default length the code space dwarfs realistic link counts, and the insert
// itself still rejects a lost race.
func (s *LinkService) allocateShortCode(ctx context.Context) (string, error) {
	for {
		code, err := GenerateCode(s.codeLength)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

// Resolve returns the target URL for a code and counts the click.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	if link == nil {
		return "", domain.ErrLinkNotFound
	}

	if err := s.repo.IncrementClicks(ctx, code); err != nil {
		return "", err
	}
	return link.TargetURL, nil
}

// Stats returns the link for its creation time and click count.
func (s *LinkService) Stats(ctx context.Context, code string) (*domain.Link, error) {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}

// DeletionViewExists gates rendering of the deletion form.
func (s *LinkService) DeletionViewExists(ctx context.Context, code string) (bool, error) {
	return s.repo.Exists(ctx, code)
}

// ConfirmDeletion deletes the link when the submitted token matches its
// stored deletion token. A mismatch leaves the link untouched.
func (s *LinkService) ConfirmDeletion(ctx context.Context, code, token string) error {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return err
	}
	if link == nil {
		return domain.ErrLinkNotFound
	}

	if token != link.DeletionToken {
		return domain.ErrTokenMismatch
	}

	return s.repo.Delete(ctx, code)
}
