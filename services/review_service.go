package services

import (
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingStrategy decides how a new review folds into a guru's rating.
type RatingStrategy string

const (
	// RatingRunning averages the stored rating with the new one.
	RatingRunning RatingStrategy = "running"
	// RatingMean recomputes the mean over every review of the guru.
	RatingMean RatingStrategy = "mean"
)

func ParseRatingStrategy(s string) RatingStrategy {
	if RatingStrategy(s) == RatingMean {
		return RatingMean
	}
	return RatingRunning
}

type ReviewInput struct {
	StudentID uuid.UUID
	GuruID    uuid.UUID
	Rating    int
	Comment   string
}

// CreateReview stores a review from a student who completed a session with the guru
// and updates the guru's rating in the same transaction.
func CreateReview(db *gorm.DB, strategy RatingStrategy, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Student{}, in.StudentID, ErrStudentNotFound); err != nil {
			return err
		}

		var guru models.Guru
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&guru, "id = ?", in.GuruID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuruNotFound
		}
		if err != nil {
			return errors.Wrap(err, "lock guru")
		}

		var completed int64
		if err := tx.Model(&models.Session{}).
			Where("guru_id = ? AND student_id = ? AND status = ?", in.GuruID, in.StudentID, models.SessionCompleted).
			Count(&completed).Error; err != nil {
			return errors.Wrap(err, "check sessions")
		}
		if completed == 0 {
			return ErrNoCompletedSession
		}

		review = models.Review{
			StudentID: in.StudentID,
			GuruID:    in.GuruID,
			Rating:    in.Rating,
			Comment:   in.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			return errors.Wrap(err, "create review")
		}

		rating := (guru.Rating + float64(in.Rating)) / 2
		if strategy == RatingMean {
			if rating, err = meanRating(tx, in.GuruID); err != nil {
				return err
			}
		}
		return errors.Wrap(tx.Model(&guru).Update("rating", rating).Error, "update rating")
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview changes rating and comment when given. Under the mean strategy the
// guru's rating is recomputed; the running strategy has no history to correct.
func UpdateReview(db *gorm.DB, strategy RatingStrategy, id uuid.UUID, rating *int, comment *string) (*models.Review, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, ErrInvalidRating
	}

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&review, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		if err != nil {
			return errors.Wrap(err, "load review")
		}
		if rating != nil {
			review.Rating = *rating
		}
		if comment != nil {
			review.Comment = *comment
		}
		if err := tx.Save(&review).Error; err != nil {
			return errors.Wrap(err, "update review")
		}
		if strategy == RatingMean && rating != nil {
			return refreshMeanRating(tx, review.GuruID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func DeleteReview(db *gorm.DB, strategy RatingStrategy, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.First(&review, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		if err != nil {
			return errors.Wrap(err, "load review")
		}
		if err := tx.Delete(&review).Error; err != nil {
			return errors.Wrap(err, "delete review")
		}
		if strategy == RatingMean {
			return refreshMeanRating(tx, review.GuruID)
		}
		return nil
	})
}

func meanRating(tx *gorm.DB, guruID uuid.UUID) (float64, error) {
	var mean float64
	err := tx.Model(&models.Review{}).
		Where("guru_id = ?", guruID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&mean).Error
	return mean, errors.Wrap(err, "average rating")
}

func refreshMeanRating(tx *gorm.DB, guruID uuid.UUID) error {
	var guru models.Guru
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&guru, "id = ?", guruID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(err, "lock guru")
	}
	mean, err := meanRating(tx, guruID)
	if err != nil {
		return err
	}
	return errors.Wrap(tx.Model(&guru).Update("rating", mean).Error, "update rating")
}

// ListReviews returns reviews matching where, newest first, with the named
// associations ("Student", "Guru") reduced to id and username.
func ListReviews(db *gorm.DB, where map[string]interface{}, populate ...string) ([]models.PopulatedReview, error) {
	var reviews []models.Review
	q := db.Order("created_at desc")
	for _, assoc := range populate {
		q = q.Preload(assoc, selectRef)
	}
	if len(where) > 0 {
		q = q.Where(where)
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}

	out := make([]models.PopulatedReview, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.Populated())
	}
	return out, nil
}
