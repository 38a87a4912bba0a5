package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"

	"github.com/jinzhu/copier"
)

func toUserBrief(u *model.User) dto.UserBriefDTO {
	if u == nil {
		return dto.UserBriefDTO{}
	}
	return dto.UserBriefDTO{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsPrivate:   u.IsPrivate,
	}
}

func toPreferences(u *model.User) dto.PreferencesDTO {
	filters := []string(u.ContentTypeFilters)
	if filters == nil {
		filters = []string{}
	}
	interests := []string(u.Interests)
	if interests == nil {
		interests = []string{}
	}
	return dto.PreferencesDTO{
		FeedMode:           u.FeedMode,
		ContentTypeFilters: filters,
		FocusMode:          u.FocusMode,
		DailyBudgetMinutes: u.DailyBudgetMinutes,
		Interests:          interests,
	}
}

func toStats(u *model.User, followers, following int64) dto.StatsDTO {
	return dto.StatsDTO{
		Followers:       followers,
		Following:       following,
		ContentCount:    u.ContentCount,
		HelpfulReceived: u.HelpfulReceived,
		HelpfulGiven:    u.HelpfulGiven,
	}
}

func toUserDTO(u *model.User, followers, following int64) (*dto.UserDTO, error) {
	out := &dto.UserDTO{}
	if err := copier.Copy(out, u); err != nil {
		return nil, err
	}
	out.Preferences = toPreferences(u)
	out.Stats = toStats(u, followers, following)
	return out, nil
}

func toMediaDTO(m *model.ContentMedia) dto.MediaDTO {
	return dto.MediaDTO{
		ID:              m.ID,
		URL:             m.URL,
		Type:            m.Type,
		DurationSeconds: m.DurationSeconds,
		Status:          m.Status,
		SortOrder:       m.SortOrder,
	}
}

// toContentDTO 静默模式的内容不输出 metrics
func toContentDTO(c *model.Content) (*dto.ContentDTO, error) {
	out := &dto.ContentDTO{}
	if err := copier.Copy(out, c); err != nil {
		return nil, err
	}
	out.Creator = toUserBrief(&c.Creator)
	out.Topics = c.TopicNames()
	out.Media = make([]dto.MediaDTO, 0, len(c.Media))
	for i := range c.Media {
		out.Media = append(out.Media, toMediaDTO(&c.Media[i]))
	}
	if !c.SilentMode {
		out.Metrics = &dto.MetricsDTO{
			HelpfulCount:   c.HelpfulCount,
			NotUsefulCount: c.NotUsefulCount,
			ViewCount:      c.ViewCount,
			SaveCount:      c.SaveCount,
			ShareCount:     c.ShareCount,
			QualityScore:   c.QualityScore,
		}
	}
	return out, nil
}

func toContentDTOs(contents []*model.Content) ([]*dto.ContentDTO, error) {
	out := make([]*dto.ContentDTO, 0, len(contents))
	for _, c := range contents {
		item, err := toContentDTO(c)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
