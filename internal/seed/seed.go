// Package seed loads catalog content (badges, modules, lessons, questions)
// from a YAML document into the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository"
	"gopkg.in/yaml.v3"
)

type Content struct {
	Badges  []Badge  `yaml:"badges"`
	Modules []Module `yaml:"modules"`
}

type Badge struct {
	Key         string       `yaml:"key"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Image       string       `yaml:"image"`
	Requirement *Requirement `yaml:"requirement"`
}

type Requirement struct {
	Type  models.RequirementType `yaml:"type"`
	Value int                    `yaml:"value"`
}

type Module struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Image         string   `yaml:"image"`
	RequiredLevel *int     `yaml:"required_level"`
	Premium       bool     `yaml:"premium"`
	Lessons       []Lesson `yaml:"lessons"`
}

type Lesson struct {
	Title     string     `yaml:"title"`
	Content   string     `yaml:"content"`
	Image     string     `yaml:"image"`
	XPReward  int        `yaml:"xp_reward"`
	Badge     string     `yaml:"badge"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Prompt  string   `yaml:"prompt"`
	XP      int      `yaml:"xp"`
	Answers []Answer `yaml:"answers"`
}

type Answer struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// Parse decodes and validates a content document. Unknown fields are errors.
func Parse(r io.Reader) (*Content, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks references and the one-correct-answer rule, reporting
// every problem found.
func (c *Content) Validate() error {
	var errs []error
	keys := make(map[string]bool, len(c.Badges))
	for i, b := range c.Badges {
		if b.Key == "" || b.Name == "" {
			errs = append(errs, fmt.Errorf("badge %d: key and name are required", i))
		}
		if keys[b.Key] {
			errs = append(errs, fmt.Errorf("badge %q: duplicate key", b.Key))
		}
		keys[b.Key] = true
		if b.Requirement != nil {
			switch b.Requirement.Type {
			case models.RequirementStreak, models.RequirementLessonsCompleted, models.RequirementXP, models.RequirementLevel:
			default:
				errs = append(errs, fmt.Errorf("badge %q: unknown requirement type %q", b.Key, b.Requirement.Type))
			}
			if b.Requirement.Value <= 0 {
				errs = append(errs, fmt.Errorf("badge %q: requirement value must be positive", b.Key))
			}
		}
	}

	for mi, m := range c.Modules {
		where := fmt.Sprintf("module %d (%s)", mi, m.Title)
		if m.Title == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", where))
		}
		if m.RequiredLevel != nil && *m.RequiredLevel < 1 {
			errs = append(errs, fmt.Errorf("%s: required_level must be at least 1", where))
		}
		for li, l := range m.Lessons {
			lwhere := fmt.Sprintf("%s lesson %d (%s)", where, li, l.Title)
			if l.Title == "" {
				errs = append(errs, fmt.Errorf("%s: title is required", lwhere))
			}
			if l.Badge != "" && !keys[l.Badge] {
				errs = append(errs, fmt.Errorf("%s: unknown badge %q", lwhere, l.Badge))
			}
			for qi, q := range l.Questions {
				qwhere := fmt.Sprintf("%s question %d", lwhere, qi)
				if len(q.Answers) < 2 {
					errs = append(errs, fmt.Errorf("%s: needs at least two answers", qwhere))
				}
				correct := false
				for _, a := range q.Answers {
					correct = correct || a.Correct
				}
				if !correct {
					errs = append(errs, fmt.Errorf("%s: needs a correct answer", qwhere))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Stores groups the repositories Apply writes to.
type Stores struct {
	Content repository.ContentRepository
	Badges  repository.BadgeRepository
}

// Summary counts what Apply inserted.
type Summary struct {
	Badges    int
	Modules   int
	Lessons   int
	Questions int
}

// ErrAlreadySeeded is returned by Apply when the catalog is not empty.
var ErrAlreadySeeded = errors.New("catalog already has modules")

// Apply inserts c into an empty catalog. Module order and lesson order follow
// document order. Seeding is single-shot: rows are written one by one, so a
// failed run leaves a partial catalog and the database must be recreated
// before retrying.
func Apply(ctx context.Context, s Stores, c *Content) (Summary, error) {
	log := logger.FromContext(ctx).WithPrefix("seed")
	var sum Summary

	existing, err := s.Content.ListModules(ctx)
	if err != nil {
		return sum, fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return sum, ErrAlreadySeeded
	}

	badgeIDs := make(map[string]int64, len(c.Badges))
	for _, b := range c.Badges {
		badge := models.Badge{Name: b.Name, Description: b.Description, ImageKey: b.Image}
		if b.Requirement != nil {
			badge.RequirementType = b.Requirement.Type
			badge.RequirementValue = b.Requirement.Value
		}
		id, err := s.Badges.Insert(ctx, badge)
		if err != nil {
			return sum, fmt.Errorf("insert badge %q: %w", b.Key, err)
		}
		badgeIDs[b.Key] = id
		sum.Badges++
	}

	for mi, m := range c.Modules {
		level := 1
		if m.RequiredLevel != nil {
			level = *m.RequiredLevel
		}
		moduleID, err := s.Content.InsertModule(ctx, models.Module{
			Title:         m.Title,
			Description:   m.Description,
			ImageKey:      m.Image,
			RequiredLevel: level,
			IsPremium:     m.Premium,
			OrderIndex:    mi,
		})
		if err != nil {
			return sum, fmt.Errorf("insert module %q: %w", m.Title, err)
		}
		sum.Modules++

		for li, l := range m.Lessons {
			lesson := models.Lesson{
				ModuleID:   moduleID,
				Title:      l.Title,
				Content:    l.Content,
				ImageKey:   l.Image,
				OrderIndex: li,
				XPReward:   l.XPReward,
			}
			if l.Badge != "" {
				id := badgeIDs[l.Badge]
				lesson.BadgeID = &id
			}
			lessonID, err := s.Content.InsertLesson(ctx, lesson)
			if err != nil {
				return sum, fmt.Errorf("insert lesson %q: %w", l.Title, err)
			}
			sum.Lessons++

			for qi, q := range l.Questions {
				xp := q.XP
				if xp == 0 {
					xp = 10
				}
				qa := models.QuestionWithAnswers{
					Question: models.Question{LessonID: lessonID, Prompt: q.Prompt, OrderIndex: qi, XPValue: xp},
				}
				for ai, a := range q.Answers {
					qa.Answers = append(qa.Answers, models.Answer{Text: a.Text, IsCorrect: a.Correct, OrderIndex: ai})
				}
				if _, err := s.Content.InsertQuestion(ctx, qa); err != nil {
					return sum, fmt.Errorf("insert question %d of %q: %w", qi, l.Title, err)
				}
				sum.Questions++
			}
		}
		log.Info("seeded module %q with %d lessons", m.Title, len(m.Lessons))
	}
	return sum, nil
}
