package services

import (
	"testing"

	"nurture/internal/models"
	"nurture/internal/pagination"
	"nurture/internal/testutil"
)

func TestCreatePost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCommunityService(db)
	user := testutil.CreateTestUser(t, db)

	post, err := svc.CreatePost(user.ID, PostInput{Title: " Sleep tips? ", Content: "Third trimester is rough", Category: "sleep"})
	testutil.AssertNoError(t, err)
	if post.Title != "Sleep tips?" || post.Likes != 0 || post.CommentsCount != 0 {
		t.Errorf("unexpected post: %+v", post)
	}
	if post.Author == nil || post.Author.ID != user.ID {
		t.Fatalf("expected author to be loaded, got %+v", post.Author)
	}

	_, err = svc.CreatePost(user.ID, PostInput{})
	for _, field := range []string{"title", "content", "category"} {
		testutil.AssertFieldError(t, err, field)
	}
}

func TestGetPostsPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCommunityService(db)
	user := testutil.CreateTestUser(t, db)

	var last *models.CommunityPost
	for i := 0; i < 5; i++ {
		last = testutil.CreateTestPost(t, db, user.ID)
	}
	_, err := svc.CreatePost(user.ID, PostInput{Title: "Names", Content: "Ideas?", Category: "naming"})
	testutil.AssertNoError(t, err)

	page, err := svc.GetPosts(pagination.PageRequest{Page: 1, PageSize: 2}, "general")
	testutil.AssertNoError(t, err)
	if page.TotalItems != 5 || page.TotalPages != 3 || !page.HasMore || len(page.Data) != 2 {
		t.Fatalf("unexpected first page: total=%d pages=%d more=%v len=%d", page.TotalItems, page.TotalPages, page.HasMore, len(page.Data))
	}
	if page.Data[0].ID != last.ID {
		t.Errorf("expected newest post first, got %s", page.Data[0].ID)
	}
	if page.Data[0].Author == nil {
		t.Error("expected authors to be loaded")
	}

	tail, err := svc.GetPosts(pagination.PageRequest{Page: 3, PageSize: 2}, "general")
	testutil.AssertNoError(t, err)
	if len(tail.Data) != 1 || tail.HasMore {
		t.Errorf("expected one item on the last page, got %d (more=%v)", len(tail.Data), tail.HasMore)
	}

	all, err := svc.GetPosts(pagination.PageRequest{}, "")
	testutil.AssertNoError(t, err)
	if all.TotalItems != 6 || all.PageSize != pagination.DefaultPageSize {
		t.Errorf("expected 6 posts with default page size, got %d/%d", all.TotalItems, all.PageSize)
	}
}

func TestLikes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCommunityService(db)
	author := testutil.CreateTestUser(t, db)
	fan := testutil.CreateTestUser(t, db)
	post := testutil.CreateTestPost(t, db, author.ID)

	liked, err := svc.LikePost(fan.ID, post.ID)
	testutil.AssertNoError(t, err)
	if liked.Likes != 1 {
		t.Fatalf("expected 1 like, got %d", liked.Likes)
	}

	again, err := svc.LikePost(fan.ID, post.ID)
	testutil.AssertNoError(t, err)
	if again.Likes != 1 {
		t.Errorf("liking twice must not double count, got %d", again.Likes)
	}

	unliked, err := svc.UnlikePost(fan.ID, post.ID)
	testutil.AssertNoError(t, err)
	if unliked.Likes != 0 {
		t.Errorf("expected 0 likes, got %d", unliked.Likes)
	}

	unliked, err = svc.UnlikePost(fan.ID, post.ID)
	testutil.AssertNoError(t, err)
	if unliked.Likes != 0 {
		t.Errorf("likes must never go negative, got %d", unliked.Likes)
	}

	_, err = svc.LikePost(fan.ID, "0190f5a0-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "POST_NOT_FOUND")
}

func TestComments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCommunityService(db)
	author := testutil.CreateTestUser(t, db)
	reader := testutil.CreateTestUser(t, db)
	post := testutil.CreateTestPost(t, db, author.ID)

	first, err := svc.AddComment(reader.ID, post.ID, "Same here!")
	testutil.AssertNoError(t, err)
	if first.Author == nil || first.Author.ID != reader.ID {
		t.Errorf("expected comment author to be loaded, got %+v", first.Author)
	}
	_, err = svc.AddComment(author.ID, post.ID, "Thanks")
	testutil.AssertNoError(t, err)

	_, err = svc.AddComment(reader.ID, post.ID, "   ")
	testutil.AssertFieldError(t, err, "content")

	got, _ := svc.GetPost(post.ID)
	if got.CommentsCount != 2 {
		t.Errorf("expected comments_count 2, got %d", got.CommentsCount)
	}

	comments, err := svc.GetComments(post.ID)
	testutil.AssertNoError(t, err)
	if len(comments) != 2 || comments[0].ID != first.ID {
		t.Errorf("expected comments oldest first, got %+v", comments)
	}

	testutil.AssertAppError(t, svc.DeleteComment(author.ID, first.ID), "FORBIDDEN")
	testutil.AssertNoError(t, svc.DeleteComment(reader.ID, first.ID))
	testutil.AssertAppError(t, svc.DeleteComment(reader.ID, first.ID), "COMMENT_NOT_FOUND")

	got, _ = svc.GetPost(post.ID)
	if got.CommentsCount != 1 {
		t.Errorf("expected comments_count 1, got %d", got.CommentsCount)
	}
}

func TestDeletePost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCommunityService(db)
	author := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	post := testutil.CreateTestPost(t, db, author.ID)
	_, _ = svc.LikePost(other.ID, post.ID)
	_, _ = svc.AddComment(other.ID, post.ID, "Nice")

	testutil.AssertAppError(t, svc.DeletePost(other.ID, post.ID), "FORBIDDEN")
	testutil.AssertNoError(t, svc.DeletePost(author.ID, post.ID))

	_, err := svc.GetPost(post.ID)
	testutil.AssertAppError(t, err, "POST_NOT_FOUND")

	var comments, likes int64
	db.Model(&models.CommunityComment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.Model(&models.CommunityLike{}).Where("post_id = ?", post.ID).Count(&likes)
	if comments != 0 || likes != 0 {
		t.Errorf("expected comments and likes to be removed, got %d and %d", comments, likes)
	}
}
