package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses: NotFound
// becomes 404 (ownership mismatches included), ValidationError becomes 400
// with the field/message pairs, anything else is a 500 with the detail kept
// out of the response body.
func respondError(c *gin.Context, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  validation.Error(),
			"fields": validation.Fields,
		})
		return
	}
	log.Printf("ERROR: request %v failed: %v", c.GetString(ContextRequestIDKey), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// pathObjectID parses an ObjectID path parameter, reporting a bad value as a
// not-found for the named entity so malformed and unknown ids look the same.
func pathObjectID(c *gin.Context, param, kind string) (primitive.ObjectID, bool) {
	raw := c.Param(param)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": kind + " " + raw + " not found"})
		return primitive.NilObjectID, false
	}
	return id, true
}
