package handlers

import (
	"time"

	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserResponse struct {
	ID                uint      `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

func userView(u *models.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		FullName:          u.FullName,
		Email:             u.Email,
		Role:              string(u.Role),
		ProfilePictureURL: u.ProfilePictureURL,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}

type ReviewRequestResponse struct {
	ID                uint       `json:"id"`
	StudentID         uint       `json:"student_id"`
	CoachID           *uint      `json:"coach_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	VideoURL          string     `json:"video_url"`
	OfferedPrice      float64    `json:"offered_price"`
	Status            string     `json:"status"`
	AcceptedByCoachID *uint      `json:"accepted_by_coach_id"`
	ReviewVideoURL    *string    `json:"review_video_url"`
	ReviewNotes       *string    `json:"review_notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	AcceptedAt        *time.Time `json:"accepted_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

func reviewView(r *models.VideoReviewRequest) ReviewRequestResponse {
	return ReviewRequestResponse{
		ID:                r.ID,
		StudentID:         r.StudentID,
		CoachID:           r.CoachID,
		Title:             r.Title,
		Description:       r.Description,
		VideoURL:          r.VideoURL,
		OfferedPrice:      r.OfferedPrice,
		Status:            string(r.Status),
		AcceptedByCoachID: r.AcceptedByCoachID,
		ReviewVideoURL:    r.ReviewVideoURL,
		ReviewNotes:       r.ReviewNotes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		AcceptedAt:        r.AcceptedAt,
		CompletedAt:       r.CompletedAt,
	}
}

func reviewViews(rs []models.VideoReviewRequest) []ReviewRequestResponse {
	out := make([]ReviewRequestResponse, 0, len(rs))
	for i := range rs {
		out = append(out, reviewView(&rs[i]))
	}
	return out
}

type SessionResponse struct {
	ID              uint      `json:"id"`
	CoachID         uint      `json:"coach_id"`
	StudentID       uint      `json:"student_id"`
	MaterialID      *uint     `json:"material_id"`
	SessionType     string    `json:"session_type"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Status          string    `json:"status"`
	MeetingLink     *string   `json:"meeting_link"`
	Location        *string   `json:"location"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func sessionView(s *models.TrainingSession) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		CoachID:         s.CoachID,
		StudentID:       s.StudentID,
		MaterialID:      s.MaterialID,
		SessionType:     s.SessionType,
		ScheduledAt:     s.ScheduledAt,
		EndsAt:          s.EndsAt(),
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Status:          string(s.Status),
		MeetingLink:     s.MeetingLink,
		Location:        s.Location,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func sessionViews(ss []models.TrainingSession) []SessionResponse {
	out := make([]SessionResponse, 0, len(ss))
	for i := range ss {
		out = append(out, sessionView(&ss[i]))
	}
	return out
}

type MaterialResponse struct {
	ID          uint      `json:"id"`
	CoachID     uint      `json:"coach_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	FileURL     *string   `json:"file_url,omitempty"`
	Price       float64   `json:"price"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func materialView(m *models.TrainingMaterial) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		CoachID:     m.CoachID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		FileURL:     m.FileURL,
		Price:       m.Price,
		IsPublished: m.IsPublished,
		CreatedAt:   m.CreatedAt,
	}
}

// publicMaterialView hides the download link; buyers get it from their purchases.
func publicMaterialView(m *models.TrainingMaterial) MaterialResponse {
	v := materialView(m)
	v.FileURL = nil
	return v
}

type CourseResponse struct {
	ID           uint               `json:"id"`
	CoachID      uint               `json:"coach_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	SkillLevel   string             `json:"skill_level"`
	ThumbnailURL *string            `json:"thumbnail_url,omitempty"`
	Price        float64            `json:"price"`
	IsPublished  bool               `json:"is_published"`
	Materials    []MaterialResponse `json:"materials"`
	CreatedAt    time.Time          `json:"created_at"`
}

func courseView(c *models.Course, withFiles bool) CourseResponse {
	materials := make([]MaterialResponse, 0, len(c.Materials))
	for _, m := range c.Materials {
		if withFiles {
			materials = append(materials, materialView(m))
		} else {
			materials = append(materials, publicMaterialView(m))
		}
	}
	return CourseResponse{
		ID:           c.ID,
		CoachID:      c.CoachID,
		Title:        c.Title,
		Description:  c.Description,
		SkillLevel:   c.SkillLevel,
		ThumbnailURL: c.ThumbnailURL,
		Price:        c.Price,
		IsPublished:  c.IsPublished,
		Materials:    materials,
		CreatedAt:    c.CreatedAt,
	}
}

type PurchaseResponse struct {
	ID                 uuid.UUID         `json:"id"`
	StudentID          uint              `json:"student_id"`
	CoachID            uint              `json:"coach_id"`
	MaterialID         *uint             `json:"material_id,omitempty"`
	CourseID           *uint             `json:"course_id,omitempty"`
	PurchasePrice      float64           `json:"purchase_price"`
	PlatformFee        float64           `json:"platform_fee"`
	CoachEarnings      float64           `json:"coach_earnings"`
	ExternalPaymentRef string            `json:"external_payment_ref"`
	ReceiptURL         *string           `json:"receipt_url,omitempty"`
	PurchasedAt        time.Time         `json:"purchased_at"`
	Material           *MaterialResponse `json:"material,omitempty"`
	Course             *CourseResponse   `json:"course,omitempty"`
}

func materialPurchaseView(p *models.MaterialPurchase) PurchaseResponse {
	materialID := p.MaterialID
	v := PurchaseResponse{
		ID:                 p.ID,
		StudentID:          p.StudentID,
		CoachID:            p.CoachID,
		MaterialID:         &materialID,
		PurchasePrice:      p.PurchasePrice,
		PlatformFee:        p.PlatformFee,
		CoachEarnings:      p.CoachEarnings,
		ExternalPaymentRef: p.ExternalPaymentRef,
		ReceiptURL:         p.ReceiptURL,
		PurchasedAt:        p.PurchasedAt,
	}
	if p.Material != nil {
		m := materialView(p.Material)
		v.Material = &m
	}
	return v
}

func coursePurchaseView(p *models.CoursePurchase) PurchaseResponse {
	courseID := p.CourseID
	v := PurchaseResponse{
		ID:                 p.ID,
		StudentID:          p.StudentID,
		CoachID:            p.CoachID,
		CourseID:           &courseID,
		PurchasePrice:      p.PurchasePrice,
		PlatformFee:        p.PlatformFee,
		CoachEarnings:      p.CoachEarnings,
		ExternalPaymentRef: p.ExternalPaymentRef,
		ReceiptURL:         p.ReceiptURL,
		PurchasedAt:        p.PurchasedAt,
	}
	if p.Course != nil {
		c := courseView(p.Course, true)
		v.Course = &c
	}
	return v
}

type ThemeResponse struct {
	SiteName       string            `json:"site_name"`
	PrimaryColor   string            `json:"primary_color"`
	SecondaryColor string            `json:"secondary_color"`
	FontFamily     string            `json:"font_family"`
	LogoURL        *string           `json:"logo_url,omitempty"`
	Palette        datatypes.JSONMap `json:"palette"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func themeView(t *models.SiteTheme) ThemeResponse {
	return ThemeResponse{
		SiteName:       t.SiteName,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		FontFamily:     t.FontFamily,
		LogoURL:        t.LogoURL,
		Palette:        t.Palette,
		UpdatedAt:      t.UpdatedAt,
	}
}
