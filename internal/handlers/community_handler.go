package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nurture/internal/errors"
	"nurture/internal/pagination"
	"nurture/internal/services"
)

// CommunityHandler handles the community forum.
type CommunityHandler struct {
	communityService services.CommunityServicer
	auditService     services.AuditServicer
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(communityService services.CommunityServicer, auditService services.AuditServicer) *CommunityHandler {
	return &CommunityHandler{communityService: communityService, auditService: auditService}
}

// CreatePostRequest represents a new forum post.
type CreatePostRequest struct {
	Title     string  `json:"title" binding:"required,notblank,max=200"`
	Content   string  `json:"content" binding:"required,notblank,max=10000"`
	Category  string  `json:"category" binding:"required,post_category"`
	ImagePath *string `json:"image_path" binding:"omitempty,max=512"`
}

// CreateCommentRequest represents a reply to a post.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=2000"`
}

// PostListQuery holds the listing filters.
type PostListQuery struct {
	pagination.PageRequest
	Category string `form:"category" binding:"omitempty,post_category"`
}

// CreatePost publishes a forum post
// @Summary     Create a post
// @Tags        community
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePostRequest true "Post"
// @Success     201 {object} map[string]models.CommunityPost
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /community/posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.communityService.CreatePost(userID, services.PostInput{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_POST", "community_post", post.ID, c.ClientIP(),
		map[string]any{"category": post.Category})

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPosts pages through forum posts
// @Summary     List posts
// @Description Newest first, optionally filtered by category
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 50)"
// @Param       category  query string false "Category filter"
// @Success     200 {object} pagination.PageResponse[models.CommunityPost]
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /community/posts [get]
func (h *CommunityHandler) GetPosts(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var query PostListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.communityService.GetPosts(query.PageRequest, query.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPost returns one forum post
// @Summary     Get a post
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} map[string]models.CommunityPost
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Post not found"
// @Router      /community/posts/{id} [get]
func (h *CommunityHandler) GetPost(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.communityService.GetPost(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost deletes one of the user's posts
// @Summary     Delete a post
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Written by another user"
// @Failure     404 {object} ErrorResponse "Post not found"
// @Router      /community/posts/{id} [delete]
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	postID := c.Param("id")
	if err := h.communityService.DeletePost(userID, postID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_POST", "community_post", postID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// LikePost likes a post. Liking twice has no further effect.
// @Summary     Like a post
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} map[string]models.CommunityPost
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Post not found"
// @Router      /community/posts/{id}/like [post]
func (h *CommunityHandler) LikePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.communityService.LikePost(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// UnlikePost withdraws a like
// @Summary     Unlike a post
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} map[string]models.CommunityPost
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Post not found"
// @Router      /community/posts/{id}/like [delete]
func (h *CommunityHandler) UnlikePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.communityService.UnlikePost(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetComments lists a post's comments
// @Summary     List comments
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} map[string][]models.CommunityComment
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Post not found"
// @Router      /community/posts/{id}/comments [get]
func (h *CommunityHandler) GetComments(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	comments, err := h.communityService.GetComments(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment replies to a post
// @Summary     Comment on a post
// @Tags        community
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Post ID"
// @Param       request body CreateCommentRequest true "Comment"
// @Success     201 {object} map[string]models.CommunityComment
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Post not found"
// @Router      /community/posts/{id}/comments [post]
func (h *CommunityHandler) AddComment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCommentRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	comment, err := h.communityService.AddComment(userID, c.Param("id"), req.Content)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment deletes one of the user's comments
// @Summary     Delete a comment
// @Tags        community
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Comment ID"
// @Success     200 {object} MessageResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Written by another user"
// @Failure     404 {object} ErrorResponse "Comment not found"
// @Router      /community/comments/{id} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	commentID := c.Param("id")
	if err := h.communityService.DeleteComment(userID, commentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_COMMENT", "community_comment", commentID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
