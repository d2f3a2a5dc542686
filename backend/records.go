package backend

import (
	"encoding/json"
	"strconv"
	"strings"
)

// BoolNum is the backend's boolean-as-0/1 flag. The wire value may arrive
// as a number, a bool or a quoted string depending on the endpoint.
type BoolNum bool

func (b *BoolNum) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	switch s {
	case "1", "true":
		*b = true
	default:
		*b = false
	}
	return nil
}

func (b BoolNum) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// String serializes the flag the way multipart submissions expect it.
func (b BoolNum) String() string {
	if b {
		return "1"
	}
	return "0"
}

// Backend-owned content records; the app holds transient, non-authoritative
// copies only. Timestamps stay as wire strings and are formatted at render time.
type (
	News struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		Summary     string  `json:"summary"`
		Content     string  `json:"content"`
		Visibility  BoolNum `json:"visibility"`
		ImageURL    string  `json:"image_url"`
		PublishedAt string  `json:"published_at"`
	}

	Notice struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Popup       string  `json:"popup"` // "yes" | "no"
		Visibility  BoolNum `json:"visibility"`
		FileURL     string  `json:"file_url"`
		PublishedAt string  `json:"published_at"`
	}

	Event struct {
		ID              int    `json:"id"`
		Title           string `json:"title"`
		Description     string `json:"description"`
		EventDate       string `json:"event_date"`
		EventDateNepali string `json:"event_date_nepali"`
		EventTime       string `json:"event_time"`
		Duration        string `json:"duration"`
		Location        string `json:"location"`
		Photo           string `json:"photo"`
	}

	Course struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Visibility  BoolNum `json:"visibility"`
		BgPicture   string  `json:"bg_picture"`
	}

	GalleryImage struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Visibility  BoolNum `json:"visibility"`
		ImageURL    string  `json:"image_url"`
	}

	Download struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Visibility  BoolNum `json:"visibility"`
		FileURL     string  `json:"file_url"`
	}

	Slide struct {
		ID       int     `json:"id"`
		Title    string  `json:"title"`
		Subtitle string  `json:"subtitle"`
		Link     string  `json:"link"`
		Position int     `json:"position"`
		Active   BoolNum `json:"active"`
		ImageURL string  `json:"image_url"`
	}

	AcademicMember struct {
		ID            int     `json:"id"`
		Name          string  `json:"name"`
		Designation   string  `json:"designation"`
		Qualification string  `json:"qualification"`
		Phone         string  `json:"phone"`
		Email         string  `json:"email"`
		Visibility    BoolNum `json:"visibility"`
		Photo         string  `json:"photo"`
	}

	ExecutiveMember struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		Position    string  `json:"position"`
		Description string  `json:"description"`
		Visibility  BoolNum `json:"visibility"`
		Image       string  `json:"image"`
	}

	ContactMessage struct {
		ID        int     `json:"id"`
		Name      string  `json:"name"`
		Email     string  `json:"email"`
		Subject   string  `json:"subject"`
		Message   string  `json:"message"`
		Status    BoolNum `json:"status"` // 1 = read
		CreatedAt string  `json:"created_at"`
	}

	SchoolInfo struct {
		SchoolName        string `json:"school_name"`
		ContactNumber     string `json:"contact_number"`
		Email             string `json:"email"`
		Address           string `json:"address"`
		AboutUs           string `json:"about_us"`
		HomeAboutUs1      string `json:"home_about_us1"`
		HomeAboutUs2      string `json:"home_about_us2"`
		InfoOfficer       string `json:"info_officer"`
		InfoPhone         string `json:"info_phone"`
		Facebook          string `json:"facebook"`
		Instagram         string `json:"instagram"`
		MapURL            string `json:"map_url"`
		Logo              string `json:"logo"`
		InfoPhoto         string `json:"info_photo"`
		HomeAboutUsBanner string `json:"home_about_us_banner"`
	}

	AboutSchool struct {
		History    string `json:"history"`
		Vision     string `json:"vision"`
		Mission    string `json:"mission"`
		Objective  string `json:"objective"`
		AboutImage string `json:"about_image"`
	}

	PrincipalMessage struct {
		Name         string  `json:"name"`
		Designation  string  `json:"designation"`
		Message      string  `json:"message"`
		ShortMessage string  `json:"short_message"`
		Visibility   BoolNum `json:"visibility"`
		Photo        string  `json:"photo"`
	}

	MenuItem struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Slug  string `json:"slug"`
		URL   string `json:"url"`
	}

	AdminUser struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
)

// ListItems parses the backend's `{["a","b"]}`-wrapped list columns
// (vision/mission/objective) into plain string slices.
func ListItems(raw string) []string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "{[")
	cleaned = strings.TrimSuffix(cleaned, "]}")
	cleaned = strings.Trim(cleaned, "[]")
	if cleaned == "" {
		return nil
	}

	var items []string
	if err := json.Unmarshal([]byte("["+cleaned+"]"), &items); err == nil {
		return items
	}
	// not valid JSON; fall back to a comma split
	for _, part := range strings.Split(cleaned, ",") {
		if part = strings.Trim(strings.TrimSpace(part), `"`); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// DatePart returns the YYYY-MM-DD part of a backend timestamp.
func DatePart(ts string) string {
	if i := strings.IndexAny(ts, "T "); i > 0 {
		return ts[:i]
	}
	return ts
}

func itoa(id int) string { return strconv.Itoa(id) }
