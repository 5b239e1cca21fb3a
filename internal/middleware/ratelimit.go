package middleware

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limits holds the server's abuse-prevention configuration.
type Limits struct {
	MaxMessageSize    int
	MaxObjectDepth    int
	MaxObjectElements int
	MessagesPerSec    float64
	BurstSize         int
}

func NewLimits(maxMessageSize int, messagesPerSec float64, burstSize int) *Limits {
	return &Limits{
		MaxMessageSize:    maxMessageSize,
		MaxObjectDepth:    8,
		MaxObjectElements: 256,
		MessagesPerSec:    messagesPerSec,
		BurstSize:         burstSize,
	}
}

// ConnLimiter throttles new connections per client IP, independently of
// the per-message limits above. Each IP gets its own token bucket,
// created on first sight and dropped again once idle.
type ConnLimiter struct {
	buckets map[string]*connBucket
	every   time.Duration
	burst   int
	maxIdle time.Duration
	mu      sync.Mutex
}

type connBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewConnLimiter allows one connection per every, with the given burst,
// for each distinct IP.
func NewConnLimiter(every time.Duration, burst int) *ConnLimiter {
	return &ConnLimiter{
		buckets: make(map[string]*connBucket),
		every:   every,
		burst:   burst,
		maxIdle: 1 * time.Hour,
	}
}

// Allow reports whether ip may open another connection.
func (cl *ConnLimiter) Allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	b, exists := cl.buckets[ip]
	if !exists {
		b = &connBucket{limiter: rate.NewLimiter(rate.Every(cl.every), cl.burst)}
		cl.buckets[ip] = b
	}
	b.lastSeen = time.Now()

	return b.limiter.Allow()
}

// Cleanup drops buckets for IPs that haven't connected recently.
func (cl *ConnLimiter) Cleanup() {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	for ip, b := range cl.buckets {
		if now.Sub(b.lastSeen) > cl.maxIdle {
			delete(cl.buckets, ip)
		}
	}
}

// ValidateMessageSize checks if a message is within the size limit.
func (l *Limits) ValidateMessageSize(msgSize int) bool {
	return msgSize <= l.MaxMessageSize
}

// ValidateObjectComplexity checks nesting depth and unique key count of
// client-supplied property maps (not array lengths).
func (l *Limits) ValidateObjectComplexity(data map[string]interface{}) error {
	depth, keys := complexity(data, 0)

	if depth > l.MaxObjectDepth {
		return fmt.Errorf("object nesting too deep: %d levels (max %d)", depth, l.MaxObjectDepth)
	}
	if keys > l.MaxObjectElements {
		return fmt.Errorf("object too complex: %d keys (max %d)", keys, l.MaxObjectElements)
	}
	return nil
}

func complexity(data interface{}, currentDepth int) (int, int) {
	maxDepth := currentDepth
	keyCount := 0

	switch v := data.(type) {
	case map[string]interface{}:
		keyCount = len(v)
		for _, val := range v {
			subDepth, subKeys := complexity(val, currentDepth+1)
			if subDepth > maxDepth {
				maxDepth = subDepth
			}
			keyCount += subKeys
		}
	case []interface{}:
		for _, val := range v {
			subDepth, subKeys := complexity(val, currentDepth+1)
			if subDepth > maxDepth {
				maxDepth = subDepth
			}
			keyCount += subKeys
		}
	}

	return maxDepth, keyCount
}
