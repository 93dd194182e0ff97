package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/service"
	"github.com/timomath/backend/internal/worker"
)

// QuestionSource resolves bank questions so a simulated learner can
// know the right answer. *store.SQLiteStore satisfies it.
type QuestionSource interface {
	GetQuestionByID(ctx context.Context, id string) (*question.Question, error)
}

// Config drives a simulation run.
type Config struct {
	Learners          int
	LessonsPerLearner int
	Workers           int
	Seed              uint64
}

func DefaultConfig() Config {
	return Config{
		Learners:          10,
		LessonsPerLearner: 6,
		Workers:           3,
		Seed:              1,
	}
}

// Report summarizes a simulation run.
type Report struct {
	Learners         int
	LessonsCompleted int
	Errors           []string
}

type learnerResult struct {
	userID    string
	completed int
	err       error
}

// Run seeds the system with synthetic learners. Each learner has a
// hidden per-subject skill; answers are drawn from it, so accuracies
// spread out and the difficulty adjuster has something to react to.
func Run(ctx context.Context, svc *service.LearningService, source QuestionSource, logger *slog.Logger, cfg Config) (*Report, error) {
	if cfg.Learners <= 0 || cfg.LessonsPerLearner <= 0 {
		return nil, fmt.Errorf("learners and lessons per learner must be positive")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	pool := worker.NewPool[learnerResult](cfg.Workers, cfg.Learners)
	for i := 0; i < cfg.Learners; i++ {
		n := i
		pool.Submit(fmt.Sprintf("learner-%d", n), func() learnerResult {
			return runLearner(ctx, svc, source, cfg, n)
		})
	}
	pool.Close()

	report := &Report{}
	for result := range pool.Results() {
		report.Learners++
		if result.Output.err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", result.JobID, result.Output.err))
			continue
		}
		report.LessonsCompleted += result.Output.completed
		logger.Info("simulated learner finished",
			"user_id", result.Output.userID, "lessons", result.Output.completed)
	}
	return report, nil
}

func runLearner(ctx context.Context, svc *service.LearningService, source QuestionSource, cfg Config, n int) learnerResult {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(n)))

	user, err := svc.CreateUser(ctx, fmt.Sprintf("learner-%02d", n))
	if err != nil {
		return learnerResult{err: fmt.Errorf("create user: %w", err)}
	}

	// Hidden skill per subject in [0.2, 1.0).
	skill := make(map[subject.Subject]float64, len(subject.All()))
	for _, subj := range subject.All() {
		skill[subj] = 0.2 + 0.8*rng.Float64()
	}

	result := learnerResult{userID: user.ID}
	for i := 0; i < cfg.LessonsPerLearner; i++ {
		subj := subject.All()[rng.IntN(len(subject.All()))]
		if err := playLesson(ctx, svc, source, rng, user.ID, subj, skill[subj]); err != nil {
			result.err = err
			return result
		}
		result.completed++
	}
	return result
}

func playLesson(ctx context.Context, svc *service.LearningService, source QuestionSource, rng *rand.Rand, userID string, subj subject.Subject, skill float64) error {
	l, err := svc.StartLesson(ctx, userID, subj)
	if err != nil {
		return fmt.Errorf("start lesson: %w", err)
	}

	for _, qid := range l.QuestionIDs {
		// Occasional skip, like a real learner running out of time.
		if rng.Float64() < 0.05 {
			if _, err := svc.SubmitResponse(ctx, l.ID, qid, nil, 0); err != nil {
				return fmt.Errorf("skip question: %w", err)
			}
			continue
		}

		q, err := source.GetQuestionByID(ctx, qid)
		if err != nil {
			return fmt.Errorf("load question %s: %w", qid, err)
		}
		label := q.CorrectLabel
		if rng.Float64() >= skill {
			label = wrongLabel(rng, q)
		}
		seconds := 2 + 20*rng.Float64()
		if _, err := svc.SubmitResponse(ctx, l.ID, qid, &label, seconds); err != nil {
			return fmt.Errorf("submit response: %w", err)
		}
	}

	if _, err := svc.CompleteLesson(ctx, l.ID); err != nil {
		return fmt.Errorf("complete lesson: %w", err)
	}
	return nil
}

func wrongLabel(rng *rand.Rand, q *question.Question) string {
	var wrong []string
	for _, opt := range q.Options {
		if opt.Label != q.CorrectLabel {
			wrong = append(wrong, opt.Label)
		}
	}
	if len(wrong) == 0 {
		return q.CorrectLabel
	}
	return wrong[rng.IntN(len(wrong))]
}
