package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
)

// actorFrom rebuilds the acting identity from the keys the auth middleware
// stored in the Gin context.
func actorFrom(c *gin.Context) entity.Actor {
	return entity.Actor{
		ID:   c.GetString("userID"),
		Role: entity.Role(c.GetString("userRole")),
	}
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func recordPayload(r *entity.AttendanceRecord, withUser bool) gin.H {
	p := gin.H{
		"id":               r.ID,
		"user_id":          r.UserID,
		"type":             r.Type,
		"recorded_at":      r.RecordedAt,
		"latitude":         r.Latitude,
		"longitude":        r.Longitude,
		"location_address": r.LocationAddress,
		"created_at":       r.CreatedAt,
	}
	if withUser {
		p["user_name"] = r.UserName
		p["user_email"] = r.UserEmail
	}
	return p
}

func recordPayloads(recs []entity.AttendanceRecord, withUser bool) []gin.H {
	out := make([]gin.H, 0, len(recs))
	for i := range recs {
		out = append(out, recordPayload(&recs[i], withUser))
	}
	return out
}

func pageMeta(page, perPage int, total int64) gin.H {
	last := (total + int64(perPage) - 1) / int64(perPage)
	if last < 1 {
		last = 1
	}
	return gin.H{
		"page":      page,
		"per_page":  perPage,
		"total":     total,
		"last_page": last,
	}
}
