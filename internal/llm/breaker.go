package llm

import (
	"errors"
	"log"
	"sync"
	"time"
)

// Circuit breaker errors
var (
	ErrCircuitOpen     = errors.New("circuit breaker open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// CircuitState represents the state of the circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation
	StateOpen     CircuitState = "open"      // Failing, reject requests
	StateHalfOpen CircuitState = "half-open" // Testing if service recovered
)

// CircuitBreaker stops requests to the model endpoint while it is failing.
type CircuitBreaker struct {
	mu                   sync.RWMutex
	state                CircuitState
	failureCount         int
	successCount         int
	consecutiveSuccesses int
	lastFailureTime      time.Time
	lastStateChange      time.Time

	failureThreshold int           // Failures before opening
	successThreshold int           // Successes to close from half-open
	timeout          time.Duration // How long to stay open
	halfOpenMax      int           // Max concurrent requests in half-open

	totalRequests   int64
	totalSuccesses  int64
	totalFailures   int64
	totalRejections int64
}

// NewCircuitBreaker creates a circuit breaker with the given configuration
func NewCircuitBreaker(failureThreshold int, timeout time.Duration) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 3
	}
	if timeout < 1*time.Second {
		timeout = 5 * time.Minute
	}

	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		successThreshold: 3,
		timeout:          timeout,
		halfOpenMax:      3,
		lastStateChange:  time.Now(),
	}
}

// Call attempts to execute a function through the circuit breaker
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	cb.afterRequest(err)
	return err
}

// IsOpen reports whether requests are currently rejected
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state == StateOpen && time.Since(cb.lastFailureTime) <= cb.timeout
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalRequests++

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.timeout {
			cb.setState(StateHalfOpen)
			cb.successCount = 0
			cb.consecutiveSuccesses = 0
			log.Printf("[CircuitBreaker] State: OPEN → HALF-OPEN (timeout elapsed, testing service)")
			return nil
		}
		cb.totalRejections++
		return ErrCircuitOpen

	case StateHalfOpen:
		if cb.successCount >= cb.halfOpenMax {
			cb.totalRejections++
			return ErrTooManyRequests
		}
		return nil

	default:
		return nil
	}
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.totalFailures++
		cb.failureCount++
		cb.consecutiveSuccesses = 0
		cb.lastFailureTime = time.Now()

		switch cb.state {
		case StateClosed:
			if cb.failureCount >= cb.failureThreshold {
				cb.setState(StateOpen)
				log.Printf("[CircuitBreaker] State: CLOSED → OPEN (%d consecutive failures, threshold=%d)",
					cb.failureCount, cb.failureThreshold)
			}
		case StateHalfOpen:
			cb.setState(StateOpen)
			log.Printf("[CircuitBreaker] State: HALF-OPEN → OPEN (test request failed)")
		}
		return
	}

	cb.totalSuccesses++
	cb.successCount++
	cb.consecutiveSuccesses++

	if cb.state == StateHalfOpen && cb.consecutiveSuccesses >= cb.successThreshold {
		cb.setState(StateClosed)
		cb.failureCount = 0
		log.Printf("[CircuitBreaker] State: HALF-OPEN → CLOSED (service recovered)")
	} else if cb.state == StateClosed {
		cb.failureCount = 0
	}
}

func (cb *CircuitBreaker) setState(state CircuitState) {
	cb.state = state
	cb.lastStateChange = time.Now()
}
