package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

func (s *FeedHandler) GetFeed(c *gin.Context) {
	var q dto.FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	feed, err := s.feedSvc.GetFeed(c.Request.Context(), viewerOf(c), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

func (s *FeedHandler) GetTopicFeed(c *gin.Context) {
	page, limit := pageQuery(c)

	feed, err := s.feedSvc.GetTopicFeed(c.Request.Context(), c.Param("topic"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

func (s *FeedHandler) GetCreatorFeed(c *gin.Context) {
	page, limit := pageQuery(c)

	feed, err := s.feedSvc.GetCreatorFeed(c.Request.Context(), c.Param("username"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

func (s *FeedHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, limit := pageQuery(c)

	feed, err := s.feedSvc.SearchFeed(c.Request.Context(), keyword, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}
