package api

import (
	"log"
	"net/http"
	"strconv"

	"gutenlens/internal/analyzer"
	"gutenlens/internal/library"

	"github.com/gin-gonic/gin"
)

type AnalyzeRequest struct {
	URL string `json:"url"`
}

type QueryRequest struct {
	Query      string `json:"query"`
	CurrentURL string `json:"current_url"`
}

// AnalyzeHandler runs the full analysis pipeline for a catalog URL and
// persists the result. On a model failure the partial result is returned
// alongside the error so the UI can still show metadata and content.
func AnalyzeHandler(pool *AgentPool, store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing url"}})
			return
		}
		userId := c.GetUint("userId")
		res, err := pool.Analyzer(userId).Analyze(c.Request.Context(), req.URL)
		if err != nil {
			kind := analyzer.KindOf(err)
			body := gin.H{"error": gin.H{
				"message": analyzer.MessageOf(err),
				"kind":    kind.String(),
			}}
			if res != nil {
				body["partial"] = res
			}
			c.JSON(statusForKind(kind), body)
			return
		}
		if store != nil {
			if _, err := store.Save(res); err != nil {
				log.Printf("[API] failed to persist analysis for %s: %v", res.URL, err)
			}
		}
		c.JSON(http.StatusOK, res)
	}
}

// QueryHandler routes a free-form query to summary, genre or chat.
func QueryHandler(pool *AgentPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing query"}})
			return
		}
		userId := c.GetUint("userId")
		resp := pool.Router(userId).Process(c.Request.Context(), req.Query, req.CurrentURL)
		c.JSON(http.StatusOK, resp)
	}
}

func ListAnalysesHandler(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if url := c.Query("url"); url != "" {
			rec, err := store.GetByURL(url)
			if err == library.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Analysis not found"}})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
				return
			}
			c.JSON(http.StatusOK, rec)
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		recs, err := store.List(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analyses": recs})
	}
}

func GetAnalysisHandler(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid id"}})
			return
		}
		rec, err := store.Get(uint(id))
		if err == library.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Analysis not found"}})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func DeleteAnalysisHandler(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid id"}})
			return
		}
		if err := store.Delete(uint(id)); err != nil {
			if err == library.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Analysis not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
	}
}

func statusForKind(kind analyzer.ErrorKind) int {
	switch kind {
	case analyzer.KindDomainInvalid, analyzer.KindNoURL:
		return http.StatusBadRequest
	case analyzer.KindFetchFailed, analyzer.KindModelFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
