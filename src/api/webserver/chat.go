package webserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/deo-labs/deoai/src/logging"
)

// ErrNoSession is returned for tokens whose session has been discarded
// (process restart) or never existed.
var ErrNoSession = errors.New("session not found")

const quotaMessage = "Monthly API credits exhausted. Please supply your own OpenAI API key to continue using Deo AI."

type Chat struct {
	store     *Store
	jwtSecret []byte
	sanitizer *bluemonday.Policy
}

func NewChat(store *Store, secret []byte) Chat {
	return Chat{
		store:     store,
		jwtSecret: secret,
		sanitizer: newSanitizer(),
	}
}

// CreateSession opens a new conversation and returns a bearer token for it.
func (h Chat) CreateSession(c *gin.Context) {
	sess, err := h.store.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	claims := jwt.MapClaims{
		"sid": sess.ID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		log.Printf("sign session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "token": tok})
}

// SetKey installs a user-supplied provider credential for this session.
func (h Chat) SetKey(c *gin.Context) {
	var req struct {
		APIKey string `json:"apiKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.store.SetKey(c.GetString("sid"), req.APIKey); err != nil {
		if errors.Is(err, ErrNoSession) {
			c.JSON(http.StatusNotFound, gin.H{"err": "session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Chat runs one conversational turn. The reply is the user-visible segment
// only; any hidden analysis stays in the server-side session history.
func (h Chat) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	e, ok := h.store.Get(c.GetString("sid"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"err": "session not found"})
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.agent == nil {
		c.JSON(http.StatusPaymentRequired, gin.H{"err": quotaMessage, "needKey": true})
		return
	}

	reply, err := e.agent.Respond(c.Request.Context(), e.session, req.Message)
	if err != nil {
		if logging.IsQuotaExhausted(err) {
			c.JSON(http.StatusPaymentRequired, gin.H{"err": quotaMessage, "needKey": true})
			return
		}
		log.Printf("chat session %s: %v", e.session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	// Strip HTML first, then escape dollar signs; the inserted entity must not
	// go through the sanitizer again.
	safe := SanitizeDollarSigns(h.sanitizer.Sanitize(reply))
	c.JSON(http.StatusOK, gin.H{"reply": safe})
}
