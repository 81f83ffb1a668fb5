package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	"github.com/granary/futures-sim/internal/book"
	"github.com/granary/futures-sim/internal/observ"
)

func corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

func serve(addr string, r *runner) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(observ.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/symbols", r.handleSymbols)
		api.GET("/state/:symbol", r.handleState)
		api.GET("/depth/:symbol", r.handleDepth)
		api.GET("/impact/:symbol", r.handleImpact)
		api.GET("/trades/:symbol", r.handleTrades)
		api.GET("/news", r.handleNews)
		api.GET("/snapshot", r.handleSnapshot)

		api.GET("/accounts/:trader", r.handleAccount)
		api.POST("/accounts/:trader/deposits", r.handleDeposit)
		api.POST("/orders", r.handleOrder)
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}

func (r *runner) handleSymbols(c *gin.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"symbols": r.sim.Symbols(), "regime": r.sim.Regime()})
}

func (r *runner) handleState(c *gin.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.sim.State(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (r *runner) handleDepth(c *gin.Context) {
	n := intQuery(c, "levels", 10)
	r.mu.Lock()
	defer r.mu.Unlock()
	depth, ok := r.sim.Depth(c.Param("symbol"), n)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	c.JSON(http.StatusOK, depth)
}

func (r *runner) handleImpact(c *gin.Context) {
	n := intQuery(c, "n", 240)
	r.mu.Lock()
	defer r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"symbol": c.Param("symbol"),
		"points": r.sim.ImpactHistory(c.Param("symbol"), n),
	})
}

func (r *runner) handleTrades(c *gin.Context) {
	n := intQuery(c, "n", 50)
	r.mu.Lock()
	defer r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"symbol": c.Param("symbol"),
		"trades": r.sim.Trades(c.Param("symbol"), n),
	})
}

func (r *runner) handleNews(c *gin.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"events": r.sim.NewsEvents()})
}

func (r *runner) handleSnapshot(c *gin.Context) {
	r.mu.Lock()
	snap, err := r.sim.Snapshot()
	r.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (r *runner) handleAccount(c *gin.Context) {
	trader := c.Param("trader")
	r.mu.Lock()
	margin := r.accounts.AvailableMargin(trader)
	r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"trader": trader, "available_margin": margin})
}

func (r *runner) handleDeposit(c *gin.Context) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	trader := c.Param("trader")
	r.mu.Lock()
	r.accounts.Deposit(trader, req.Amount)
	margin := r.accounts.AvailableMargin(trader)
	r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"trader": trader, "available_margin": margin})
}

func (r *runner) handleOrder(c *gin.Context) {
	var req struct {
		Symbol   string  `json:"symbol"`
		Side     string  `json:"side"`
		Kind     string  `json:"kind"`
		Price    float64 `json:"price"`
		Quantity float64 `json:"quantity"`
		Trader   string  `json:"trader"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r.mu.Lock()
	b, ok := r.sim.Book(req.Symbol)
	if !ok {
		r.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	rep, err := b.Submit(book.Order{
		Side:     side,
		Kind:     kind,
		Price:    req.Price,
		Quantity: req.Quantity,
		Trader:   req.Trader,
	})
	r.mu.Unlock()

	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, book.ErrInsufficientMargin) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func parseSide(s string) (book.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return book.SideBuy, nil
	case "SELL":
		return book.SideSell, nil
	default:
		return 0, errors.New("side must be BUY or SELL")
	}
}

func parseKind(s string) (book.Kind, error) {
	switch strings.ToUpper(s) {
	case "LIMIT", "":
		return book.KindLimit, nil
	case "MARKET":
		return book.KindMarket, nil
	default:
		return 0, errors.New("kind must be LIMIT or MARKET")
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
