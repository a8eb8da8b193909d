package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nurture/internal/errors"
	"nurture/internal/models"
	"nurture/internal/pagination"
)

// communityService handles the community forum. Post counters are updated in
// the same transaction as the like or comment rows they summarize.
type communityService struct {
	db *gorm.DB
}

// NewCommunityService creates a new CommunityServicer.
func NewCommunityService(db *gorm.DB) CommunityServicer {
	return &communityService{db: db}
}

// PostInput holds the fields for a new post.
type PostInput struct {
	Title     string
	Content   string
	Category  string
	ImagePath *string
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author")
}

// CreatePost publishes a post.
func (s *communityService) CreatePost(userID string, in PostInput) (*models.CommunityPost, error) {
	fields := map[string]string{}
	if trimmed(in.Title) == "" {
		fields["title"] = "is required"
	}
	if trimmed(in.Content) == "" {
		fields["content"] = "is required"
	}
	if trimmed(in.Category) == "" {
		fields["category"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, fields)
	}

	post := &models.CommunityPost{
		UserID:    userID,
		Title:     trimmed(in.Title),
		Content:   in.Content,
		Category:  trimmed(in.Category),
		ImagePath: nullable(in.ImagePath),
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetPost(post.ID)
}

// GetPosts pages through posts newest first, optionally within one category.
func (s *communityService) GetPosts(page pagination.PageRequest, category string) (*pagination.PageResponse[models.CommunityPost], error) {
	q := s.db.Model(&models.CommunityPost{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	resp, err := pagination.Fetch[models.CommunityPost](q, page, "created_at DESC, id DESC", withAuthor)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// GetPost returns a post with its author.
func (s *communityService) GetPost(postID string) (*models.CommunityPost, error) {
	return s.findPost(withAuthor(s.db), postID)
}

// DeletePost removes the user's own post along with its comments and likes.
func (s *communityService) DeletePost(userID, postID string) error {
	post, err := s.findPost(s.db, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperrors.ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.CommunityComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.CommunityLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// LikePost records the user's like. Liking a post twice has no further
// effect.
func (s *communityService) LikePost(userID, postID string) (*models.CommunityPost, error) {
	post, err := s.findPost(s.db, postID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommunityLike{PostID: post.ID, UserID: userID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", post.ID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetPost(post.ID)
}

// UnlikePost removes the user's like, if any. The counter never drops below
// zero.
func (s *communityService) UnlikePost(userID, postID string) (*models.CommunityPost, error) {
	post, err := s.findPost(s.db, postID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", post.ID, userID).Delete(&models.CommunityLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ? AND likes > 0", post.ID).
			UpdateColumn("likes", gorm.Expr("likes - 1")).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetPost(post.ID)
}

// GetComments lists a post's comments oldest first.
func (s *communityService) GetComments(postID string) ([]models.CommunityComment, error) {
	if _, err := s.findPost(s.db, postID); err != nil {
		return nil, err
	}
	var comments []models.CommunityComment
	if err := withAuthor(s.db).Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return comments, nil
}

// AddComment replies to a post and bumps its comment counter.
func (s *communityService) AddComment(userID, postID, content string) (*models.CommunityComment, error) {
	if trimmed(content) == "" {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"content": "is required"})
	}
	post, err := s.findPost(s.db, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.CommunityComment{PostID: post.ID, UserID: userID, Content: content}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ?", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := withAuthor(s.db).First(comment, "id = ?", comment.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return comment, nil
}

// DeleteComment removes the user's own comment and decrements the counter.
func (s *communityService) DeleteComment(userID, commentID string) error {
	if !models.IsValidID(commentID) {
		return apperrors.ErrCommentNotFound
	}
	var comment models.CommunityComment
	if err := s.db.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if comment.UserID != userID {
		return apperrors.ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&comment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.CommunityPost{}).Where("id = ? AND comments_count > 0", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *communityService) findPost(db *gorm.DB, postID string) (*models.CommunityPost, error) {
	if !models.IsValidID(postID) {
		return nil, apperrors.ErrPostNotFound
	}
	var post models.CommunityPost
	if err := db.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &post, nil
}
