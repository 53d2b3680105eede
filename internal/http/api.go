package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"book-review/internal/auth"
	"book-review/internal/domain"
	"book-review/internal/metrics"
	"book-review/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	tasks    service.TaskService
	books    service.BookService
	reviews  service.ReviewService
	comments service.CommentService
	tokens   *auth.TokenManager
	policy   auth.Policy
	logger   *logrus.Logger
}

func NewHandler(
	users service.UserService,
	tasks service.TaskService,
	books service.BookService,
	reviews service.ReviewService,
	comments service.CommentService,
	tokens *auth.TokenManager,
	policy auth.Policy,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:    users,
		tasks:    tasks,
		books:    books,
		reviews:  reviews,
		comments: comments,
		tokens:   tokens,
		policy:   policy,
		logger:   logger,
	}
}

// RegisterRoutes mounts every route on the engine. The auth limiter
// throttles credential guessing on /register and /login; the metrics
// collector observes every request.
func (h *Handler) RegisterRoutes(router *gin.Engine, collector *metrics.Collector, authLimiter *RateLimiter, metricsHandler http.Handler) {
	router.Use(corsMiddleware())
	if collector != nil {
		router.Use(collector.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	limited := router.Group("")
	if authLimiter != nil {
		limited.Use(authLimiter.Middleware())
	}
	limited.POST("/register", h.register)
	limited.POST("/login", h.login)

	router.GET("/filter_books", h.filterBooks)

	authed := router.Group("", h.requireAuth)
	{
		authed.GET("/tasks", h.listTasks)
		authed.POST("/tasks", h.createTask)
		authed.PUT("/tasks/:id", h.updateTask)
		authed.DELETE("/tasks/:id", h.deleteTask)

		authed.POST("/add_book", h.addBook)
		authed.POST("/post_review/:book_id", h.postReview)
		authed.PUT("/reviews/:review_id", h.editReview)
		authed.DELETE("/reviews/:review_id", h.deleteReview)
		authed.POST("/post_comment/:review_id", h.postComment)
		authed.PUT("/edit_comment/:comment_id", h.editComment)
		authed.DELETE("/delete_comment/:comment_id", h.deleteComment)
	}

	admin := router.Group("", h.requireAuth, h.requireAdmin)
	{
		admin.GET("/manage_users", h.manageUsers)
		admin.GET("/moderate_reviews", h.moderateReviews)
		admin.GET("/moderate_comments", h.moderateComments)
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "access_token": token})
}

type taskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (h *Handler) listTasks(c *gin.Context) {
	principal := principalFrom(c)

	tasks, err := h.tasks.List(c.Request.Context(), principal)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]taskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskResponse{
			ID:          tasks[i].ID,
			Title:       tasks[i].Title,
			Description: tasks[i].Description,
			Completed:   tasks[i].Completed,
		}
	}
	c.JSON(http.StatusOK, resp)
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), principalFrom(c), req.Title, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task created successfully", "id": task.ID})
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (h *Handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if _, err := h.tasks.Update(c.Request.Context(), principalFrom(c), c.Param("id"), update); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

type addBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	PublicationYear any    `json:"publication_year"`
}

func (h *Handler) addBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	year, err := coerceInt(req.PublicationYear)
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: invalid publication year", domain.ErrValidation))
		return
	}

	book, err := h.books.Add(c.Request.Context(), service.AddBookInput{
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		PublicationYear: year,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book added successfully", "id": book.ID})
}

type bookResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	PublicationYear int    `json:"publication_year"`
}

func (h *Handler) filterBooks(c *gin.Context) {
	var filter domain.BookFilter

	if raw, ok := c.GetQuery("rating"); ok && raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(c, fmt.Errorf("%w: invalid rating", domain.ErrValidation))
			return
		}
		filter.Rating = &rating
	}
	if raw, ok := c.GetQuery("publication_year"); ok && raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(c, fmt.Errorf("%w: invalid publication year", domain.ErrValidation))
			return
		}
		filter.PublicationYear = &year
	}

	books, err := h.books.Filter(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]bookResponse, len(books))
	for i := range books {
		resp[i] = bookResponse{
			ID:              books[i].ID,
			Title:           books[i].Title,
			Author:          books[i].Author,
			Genre:           books[i].Genre,
			PublicationYear: books[i].PublicationYear,
		}
	}
	c.JSON(http.StatusOK, resp)
}

type postReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h *Handler) postReview(c *gin.Context) {
	var req postReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.Post(c.Request.Context(), principalFrom(c), c.Param("book_id"), req.Rating, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review posted successfully", "id": review.ID})
}

type updateReviewRequest struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

func (h *Handler) editReview(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := domain.ReviewUpdate{
		Rating: req.Rating,
		Text:   req.Text,
	}
	if _, err := h.reviews.Update(c.Request.Context(), principalFrom(c), c.Param("review_id"), update); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review edited successfully"})
}

func (h *Handler) deleteReview(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), principalFrom(c), c.Param("review_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

type commentTextRequest struct {
	Text string `json:"text"`
}

func (h *Handler) postComment(c *gin.Context) {
	var req commentTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Post(c.Request.Context(), principalFrom(c), c.Param("review_id"), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment posted successfully", "id": comment.ID})
}

type updateCommentRequest struct {
	Text *string `json:"text"`
}

func (h *Handler) editComment(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := domain.CommentUpdate{Text: req.Text}
	if _, err := h.comments.Update(c.Request.Context(), principalFrom(c), c.Param("comment_id"), update); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment edited successfully"})
}

func (h *Handler) deleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), principalFrom(c), c.Param("comment_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *Handler) manageUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]gin.H, len(users))
	for i := range users {
		resp[i] = gin.H{"username": users[i].Username, "role": users[i].Role}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) moderateReviews(c *gin.Context) {
	reviews, err := h.reviews.ListModerated(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]gin.H, len(reviews))
	for i := range reviews {
		resp[i] = gin.H{
			"user":   reviews[i].Username,
			"book":   reviews[i].BookTitle,
			"rating": reviews[i].Rating,
			"text":   reviews[i].Text,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) moderateComments(c *gin.Context) {
	comments, err := h.comments.ListModerated(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]gin.H, len(comments))
	for i := range comments {
		resp[i] = gin.H{
			"user":   comments[i].Username,
			"review": comments[i].ReviewID,
			"text":   comments[i].Text,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// respondError maps the domain error taxonomy to status codes.
// Unanticipated errors surface with their underlying message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	default:
		if h.logger != nil {
			h.logger.Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// coerceInt accepts the JSON encodings clients actually send for
// integer fields: a number or a numeric string.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
