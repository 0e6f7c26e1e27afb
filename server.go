package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultPort = "8080"

type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// RateLimitMiddleware counts requests per client IP in Redis. When Redis is
// down the request is let through; rate limiting is protection, not
// correctness.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	if rl.client == nil {
		c.Next()
		return
	}
	key := "ratelimit:" + c.ClientIP()

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.Next()
		return
	}
	if count == 1 {
		_ = rl.client.Expire(c.Request.Context(), key, rl.window).Err()
	}
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}
	c.Next()
}

// errorStatus maps engine error kinds to HTTP statuses.
func errorStatus(err error) int {
	if errors.Is(err, workflow.ErrIdempotencyInProgress) {
		return http.StatusConflict
	}
	switch utils.KindOf(err) {
	case utils.ErrorKindValidation:
		return http.StatusBadRequest
	case utils.ErrorKindAlreadyReversed:
		return http.StatusConflict
	case utils.ErrorKindOverAllocation, utils.ErrorKindInsufficientBalance:
		return http.StatusUnprocessableEntity
	case utils.ErrorKindUnbalancedTransaction:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// withIdempotency wraps a settlement creation with the durable idempotency
// table when the client sends an Idempotency-Key header. Duplicate deliveries
// return the already-created record instead of double-posting. The success
// mark commits in the same transaction as the posting, so a crash can never
// leave a committed posting behind a STARTED key.
func withIdempotency[T any](c *gin.Context, logger *logrus.Logger, handlerName string,
	load func(id int) (*T, error), create func(tx *gorm.DB) (*T, int, error)) {

	db := config.GetDB()
	requestKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if requestKey == "" {
		record, _, err := create(db)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, record)
		return
	}

	skip, referenceId, err := workflow.BeginIdempotency(db, handlerName, requestKey)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if skip {
		record, err := load(referenceId)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
		return
	}

	var record *T
	err = db.Transaction(func(tx *gorm.DB) error {
		created, id, createErr := create(tx)
		if createErr != nil {
			return createErr
		}
		record = created
		return workflow.MarkIdempotencySucceeded(tx, handlerName, requestKey, id)
	})
	if err != nil {
		if markErr := workflow.MarkIdempotencyFailed(db, handlerName, requestKey, err); markErr != nil {
			config.LogError(logger, "server.go", "withIdempotency", "MarkIdempotencyFailed", requestKey, markErr)
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func createReceiptHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.NewPartyPayment
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		withIdempotency(c, logger, "receipt",
			func(id int) (*models.PartyPayment, error) {
				return models.GetPartyPayment(config.GetDB(), id)
			},
			func(tx *gorm.DB) (*models.PartyPayment, int, error) {
				payment, err := workflow.CreateReceipt(c.Request.Context(), tx, logger, input)
				if err != nil {
					return nil, 0, err
				}
				return payment, payment.ID, nil
			})
	}
}

func createPaymentHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.NewPartyPayment
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		withIdempotency(c, logger, "payment",
			func(id int) (*models.PartyPayment, error) {
				return models.GetPartyPayment(config.GetDB(), id)
			},
			func(tx *gorm.DB) (*models.PartyPayment, int, error) {
				payment, err := workflow.CreatePayment(c.Request.Context(), tx, logger, input)
				if err != nil {
					return nil, 0, err
				}
				return payment, payment.ID, nil
			})
	}
}

func createAdvanceRefundHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.NewAdvanceRefund
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		withIdempotency(c, logger, "advance-refund",
			func(id int) (*models.PartyPayment, error) {
				return models.GetPartyPayment(config.GetDB(), id)
			},
			func(tx *gorm.DB) (*models.PartyPayment, int, error) {
				refund, err := workflow.CreateAdvanceRefund(c.Request.Context(), tx, logger, input)
				if err != nil {
					return nil, 0, err
				}
				return refund, refund.ID, nil
			})
	}
}

func createTransferHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.NewAccountTransfer
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		withIdempotency(c, logger, "transfer",
			func(id int) (*models.AccountTransfer, error) {
				return models.GetAccountTransfer(config.GetDB(), id)
			},
			func(tx *gorm.DB) (*models.AccountTransfer, int, error) {
				transfer, err := workflow.CreateAccountTransfer(c.Request.Context(), tx, logger, input)
				if err != nil {
					return nil, 0, err
				}
				return transfer, transfer.ID, nil
			})
	}
}

type reverseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func reversePaymentHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
			return
		}
		var req reverseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		payment, err := workflow.ReversePartyPayment(c.Request.Context(), config.GetDB(), logger, id, req.Reason)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func reverseTransferHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer id"})
			return
		}
		var req reverseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		transfer, err := workflow.ReverseAccountTransfer(c.Request.Context(), config.GetDB(), logger, id, req.Reason)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, transfer)
	}
}

func confirmDocumentHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
			return
		}
		document, err := workflow.ConfirmDocument(c.Request.Context(), config.GetDB(), logger, id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, document)
	}
}

func reconcileHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := workflow.RunReconciliation(c.Request.Context(), config.GetDB(), logger)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func statementParams(c *gin.Context) (from, to *time.Time, page, pageSize int, err error) {
	parse := func(name string) (*time.Time, error) {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t, nil
			}
		}
		return nil, utils.NewValidationError(name, "cannot parse %q as a date", raw)
	}
	if from, err = parse("from"); err != nil {
		return
	}
	if to, err = parse("to"); err != nil {
		return
	}
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	return
}

func serveStatement(c *gin.Context, statement *workflow.Statement, filename string) {
	if c.Query("format") != "xlsx" {
		c.JSON(http.StatusOK, statement)
		return
	}
	f, err := workflow.ExportStatementXLSX(statement)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func accountStatementHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
			return
		}
		from, to, page, pageSize, err := statementParams(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		statement, err := workflow.GetAccountStatement(c.Request.Context(), config.GetDB(), logger, id, from, to, page, pageSize)
		if err != nil {
			abortWithError(c, err)
			return
		}
		serveStatement(c, statement, fmt.Sprintf("account-%d-statement.xlsx", id))
	}
}

func partyStatementHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party id"})
			return
		}
		from, to, page, pageSize, err := statementParams(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		statement, err := workflow.GetPartyStatement(c.Request.Context(), config.GetDB(), logger, id, from, to, page, pageSize)
		if err != nil {
			abortWithError(c, err)
			return
		}
		serveStatement(c, statement, fmt.Sprintf("party-%d-statement.xlsx", id))
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger logs only requests that recorded errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until the DB is ready we return 503 for app
	// endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Header("x-correlation-id", cid)
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS: explicit allowlist via CORS_ALLOWED_ORIGINS in
	// production, allow all in development.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization", "Idempotency-Key")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "x-correlation-id")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")

	// Rate limiting on the posting routes only; statements stay cheap reads.
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	posting := api.Group("")
	if config.RateLimitEnabled() {
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(config.GetRedisDB(), limit, time.Duration(windowSec)*time.Second)
		posting.Use(rateLimiter.RateLimitMiddleware)
	}

	posting.POST("/receipts", createReceiptHandler(logger))
	posting.POST("/payments", createPaymentHandler(logger))
	posting.POST("/advance-refunds", createAdvanceRefundHandler(logger))
	posting.POST("/transfers", createTransferHandler(logger))
	posting.POST("/payments/:id/reverse", reversePaymentHandler(logger))
	posting.POST("/transfers/:id/reverse", reverseTransferHandler(logger))
	posting.POST("/documents/:id/confirm", confirmDocumentHandler(logger))
	api.POST("/reconcile", reconcileHandler(logger))
	api.GET("/accounts/:id/statement", accountStatementHandler(logger))
	api.GET("/parties/:id/statement", partyStatementHandler(logger))

	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow disabling migrations
	// on startup and running them as a separate job instead.
	if !config.SkipMigrations() {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<attempt)
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("settlement engine listening on :", port)

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
