// Package apihttp exposes the hand normalization pipeline over HTTP.
package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hhnorm/internal/candidate"
	"hhnorm/internal/coach"
	"hhnorm/internal/hand"
	"hhnorm/internal/logger"
	"hhnorm/internal/normalize"
	"hhnorm/internal/ocrtext"
	"hhnorm/internal/provider"
	"hhnorm/internal/rangeinject"
	"hhnorm/internal/render"
	"hhnorm/internal/replay"
	"hhnorm/internal/store"
	"hhnorm/internal/vision"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 10 << 20

// HandStore 由 store.Store 实现。
type HandStore interface {
	SaveHand(ctx context.Context, source, rawText string, h hand.ParsedHand) (string, error)
	GetHand(ctx context.Context, id string) (store.HandRecord, hand.ParsedHand, error)
	ListHands(ctx context.Context, limit, offset int) ([]store.HandRecord, error)
}

// ImageAnalyzer 由 vision.Analyzer 实现。
type ImageAnalyzer interface {
	Enabled() bool
	AnalyzeImage(ctx context.Context, data []byte, mime string) (vision.Analysis, error)
}

// Coach 由 coach.Service 实现。
type Coach interface {
	Enabled() bool
	Reply(ctx context.Context, h hand.ParsedHand, question string) (string, error)
}

// Deps are the collaborators behind the routes. Only Normalizer is required;
// routes backed by a nil collaborator answer 503.
type Deps struct {
	Normalizer *normalize.Normalizer
	Store      HandStore
	Analyzer   ImageAnalyzer
	Coach      Coach
	// CallTimeout bounds vision and coach calls; 0 means 90s.
	CallTimeout time.Duration
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) *Router {
	if deps.Normalizer == nil {
		deps.Normalizer = normalize.New(nil)
	}
	if deps.CallTimeout <= 0 {
		deps.CallTimeout = 90 * time.Second
	}
	return &Router{deps: deps}
}

// Register 将路由挂载到给定分组下（通常为 /api）。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	hands := group.Group("/hands")
	hands.POST("/parse", r.handleParse)
	hands.POST("/canonicalize", r.handleCanonicalize)
	hands.POST("/ocr", r.handleOCR)
	hands.POST("/render", r.handleRender)
	hands.POST("/replay", r.handleReplay)
	hands.POST("/summary", r.handleSummary)
	hands.GET("", r.handleListHands)
	hands.GET("/:id", r.handleGetHand)

	group.POST("/ranges/inject", r.handleInjectRanges)
	group.POST("/vision/analyze", r.handleVisionAnalyze)
	group.POST("/coach", r.handleCoach)
}

type parseRequest struct {
	Text string `json:"text"`
	Save bool   `json:"save"`
}

func (r *Router) handleParse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res := r.deps.Normalizer.FromTextWithDetails(req.Text)
	resp := gin.H{"hand": res.Hand, "ledger": res.Ledger, "compact": res.Extraction.Compact}
	if req.Save {
		id, ok := r.save(c, "text", req.Text, res.Hand)
		if !ok {
			return
		}
		resp["id"] = id
	}
	c.JSON(http.StatusOK, resp)
}

type canonicalizeRequest struct {
	Text      string           `json:"text"`
	Candidate json.RawMessage  `json:"candidate"`
	Hand      *hand.ParsedHand `json:"hand"`
	Save      bool             `json:"save"`
}

// handleCanonicalize 接受 {hand}（重新补全已有牌局）或 {text?, candidate}（结构化输入）。
func (r *Router) handleCanonicalize(c *gin.Context) {
	var req canonicalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var (
		h      hand.ParsedHand
		source string
	)
	switch {
	case req.Hand != nil:
		h = r.deps.Normalizer.Canonicalize(*req.Hand)
		source = "hand"
	case len(req.Candidate) > 0 && string(req.Candidate) != "null":
		cand, err := candidate.Decode(string(req.Candidate))
		if err != nil {
			badRequest(c, err)
			return
		}
		h = r.deps.Normalizer.FromCandidate(req.Text, cand)
		source = "candidate"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate or hand is required"})
		return
	}
	resp := gin.H{"hand": h}
	if req.Save {
		id, ok := r.save(c, source, req.Text, h)
		if !ok {
			return
		}
		resp["id"] = id
	}
	c.JSON(http.StatusOK, resp)
}

type ocrRequest struct {
	Lines   []ocrtext.Line `json:"lines"`
	MinConf float64        `json:"min_conf"`
}

func (r *Router) handleOCR(c *gin.Context) {
	var req ocrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text, cand := ocrtext.Candidate(req.Lines, req.MinConf)
	c.JSON(http.StatusOK, gin.H{"hand": r.deps.Normalizer.FromCandidate(text, cand), "text": text})
}

type handRequest struct {
	Hand *hand.ParsedHand `json:"hand"`
}

func (r *Router) bindHand(c *gin.Context) (hand.ParsedHand, bool) {
	var req handRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return hand.ParsedHand{}, false
	}
	if req.Hand == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hand is required"})
		return hand.ParsedHand{}, false
	}
	return *req.Hand, true
}

func (r *Router) handleRender(c *gin.Context) {
	h, ok := r.bindHand(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": render.HHText(h)})
}

func (r *Router) handleReplay(c *gin.Context) {
	h, ok := r.bindHand(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"frames": replay.Frames(h)})
}

func (r *Router) handleSummary(c *gin.Context) {
	h, ok := r.bindHand(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"context": render.Summary(h), "messages": coach.Messages(h, "")})
}

type handSummary struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	ActionCount   int    `json:"action_count"`
	BlindsApplied bool   `json:"blinds_applied"`
	CreatedAt     int64  `json:"created_at"`
}

func (r *Router) handleListHands(c *gin.Context) {
	if r.deps.Store == nil {
		unavailable(c, "hand store is disabled")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	recs, err := r.deps.Store.ListHands(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Errorf("[api] list hands failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]handSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, handSummary{
			ID:            rec.ID,
			Source:        rec.Source,
			ActionCount:   rec.ActionCount,
			BlindsApplied: rec.BlindsApplied,
			CreatedAt:     rec.CreatedAtUnix,
		})
	}
	c.JSON(http.StatusOK, gin.H{"hands": out, "limit": limit, "offset": offset})
}

func (r *Router) handleGetHand(c *gin.Context) {
	if r.deps.Store == nil {
		unavailable(c, "hand store is disabled")
		return
	}
	rec, h, err := r.deps.Store.GetHand(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "hand not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "source": rec.Source, "text": rec.RawText, "created_at": rec.CreatedAtUnix, "hand": h})
}

type injectRequest struct {
	Text   string                   `json:"text"`
	Ranges []rangeinject.Assignment `json:"ranges"`
}

func (r *Router) handleInjectRanges(c *gin.Context) {
	var req injectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": rangeinject.Inject(req.Text, req.Ranges)})
}

func (r *Router) handleVisionAnalyze(c *gin.Context) {
	if r.deps.Analyzer == nil || !r.deps.Analyzer.Enabled() {
		unavailable(c, vision.ErrNoProvider.Error())
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, err)
		return
	}
	if fh.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), r.deps.CallTimeout)
	defer cancel()
	res, err := r.deps.Analyzer.AnalyzeImage(ctx, data, fh.Header.Get("Content-Type"))
	if err != nil {
		upstreamError(c, "vision", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type coachRequest struct {
	Hand    *hand.ParsedHand `json:"hand"`
	Message string           `json:"message"`
}

func (r *Router) handleCoach(c *gin.Context) {
	if r.deps.Coach == nil || !r.deps.Coach.Enabled() {
		unavailable(c, coach.ErrNoProvider.Error())
		return
	}
	var req coachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Hand == nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hand and message are required"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), r.deps.CallTimeout)
	defer cancel()
	reply, err := r.deps.Coach.Reply(ctx, *req.Hand, req.Message)
	if err != nil {
		upstreamError(c, "coach", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (r *Router) save(c *gin.Context, source, text string, h hand.ParsedHand) (string, bool) {
	if r.deps.Store == nil {
		unavailable(c, "hand store is disabled")
		return "", false
	}
	id, err := r.deps.Store.SaveHand(c.Request.Context(), source, text, h)
	if err != nil {
		logger.Errorf("[api] save hand failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func unavailable(c *gin.Context, msg string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
}

func upstreamError(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, vision.ErrNoProvider), errors.Is(err, coach.ErrNoProvider), errors.Is(err, provider.ErrCircuitOpen):
		unavailable(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		logger.Errorf("[api] %s call failed ip=%s err=%v", kind, c.ClientIP(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
