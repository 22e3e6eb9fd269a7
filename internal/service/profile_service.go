package service

import (
	"context"
	"strings"

	"github.com/BlackEmpir7199/StudySphere/internal/assistant"
	"github.com/BlackEmpir7199/StudySphere/internal/audit"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
)

const maxFallbackInterests = 5

type profileService struct {
	users     repository.UserRepository
	groups    repository.GroupRepository
	assistant *assistant.Assistant
}

func NewProfileService(
	users repository.UserRepository,
	groups repository.GroupRepository,
	asst *assistant.Assistant,
) ProfileService {
	return &profileService{users: users, groups: groups, assistant: asst}
}

// SubmitQuiz classifies the quiz answers into interest tags and stores
// them on the user. When the model is unavailable the answers themselves
// become the interests, so the quiz never hard-fails.
func (s *profileService) SubmitQuiz(ctx context.Context, userID string, answers []string) ([]string, error) {
	var interests []string

	if s.assistant != nil {
		classified, err := s.assistant.ClassifyInterests(ctx, answers)
		if err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("interest classification failed, using raw answers")
		} else {
			interests = classified
		}
	}
	if len(interests) == 0 {
		interests = fallbackInterests(answers)
	}

	if err := s.users.UpdateInterests(ctx, userID, interests); err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionQuizSubmitted, userID, "quiz submitted")
	return interests, nil
}

// SuggestGroups recommends groups matching the user's interests. Without
// a model, or when the model fails, it falls back to name matching.
func (s *profileService) SuggestGroups(ctx context.Context, userID string) ([]*domain.Group, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(user.Interests) == 0 || len(groups) == 0 {
		return groups, nil
	}

	byName := make(map[string]*domain.Group, len(groups))
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		byName[g.Name] = g
		names = append(names, g.Name)
	}

	if s.assistant != nil {
		picked, err := s.assistant.SuggestGroups(ctx, user.Interests, names)
		if err == nil {
			suggestions := make([]*domain.Group, 0, len(picked))
			for _, name := range picked {
				if g, ok := byName[name]; ok {
					suggestions = append(suggestions, g)
				}
			}
			if len(suggestions) > 0 {
				return suggestions, nil
			}
		} else {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("group suggestion failed, using name match")
		}
	}

	return matchGroupsByInterest(groups, user.Interests), nil
}

// fallbackInterests keeps the answers that look like topic words.
func fallbackInterests(answers []string) []string {
	interests := make([]string, 0, maxFallbackInterests)
	for _, a := range answers {
		a = strings.TrimSpace(a)
		if len(a) <= 2 {
			continue
		}
		interests = append(interests, a)
		if len(interests) == maxFallbackInterests {
			break
		}
	}
	return interests
}

func matchGroupsByInterest(groups []*domain.Group, interests []string) []*domain.Group {
	matched := make([]*domain.Group, 0, len(groups))
	for _, g := range groups {
		haystack := strings.ToLower(g.Name + " " + g.Description)
		for _, interest := range interests {
			if strings.Contains(haystack, strings.ToLower(interest)) {
				matched = append(matched, g)
				break
			}
		}
	}
	if len(matched) == 0 {
		return groups
	}
	return matched
}
