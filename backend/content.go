package backend

import (
	"context"
	"fmt"
)

// Public content fetchers. Each issues exactly one GET; callers decide how to
// degrade when the backend is unreachable (the public site never surfaces
// these errors to visitors).

func (c *Client) News(ctx context.Context, limit ...int) ([]News, error) {
	var out []News
	err := c.GetJSON(ctx, withLimit("/news", limit), &out)
	return out, err
}

func (c *Client) NewsItem(ctx context.Context, id int) (News, error) {
	var out News
	err := c.GetJSON(ctx, "/news/"+itoa(id), &out)
	return out, err
}

func (c *Client) Notices(ctx context.Context, limit ...int) ([]Notice, error) {
	var out []Notice
	err := c.GetJSON(ctx, withLimit("/notices", limit), &out)
	return out, err
}

func (c *Client) NoticeItem(ctx context.Context, id int) (Notice, error) {
	var out Notice
	err := c.GetJSON(ctx, "/notices/"+itoa(id), &out)
	return out, err
}

func (c *Client) Events(ctx context.Context, limit ...int) ([]Event, error) {
	var out []Event
	err := c.GetJSON(ctx, withLimit("/events", limit), &out)
	return out, err
}

func (c *Client) EventItem(ctx context.Context, id int) (Event, error) {
	var out Event
	err := c.GetJSON(ctx, "/events/"+itoa(id), &out)
	return out, err
}

func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.GetJSON(ctx, "/courses", &out)
	return out, err
}

func (c *Client) Gallery(ctx context.Context) ([]GalleryImage, error) {
	var out []GalleryImage
	err := c.GetJSON(ctx, "/gallery", &out)
	return out, err
}

func (c *Client) Downloads(ctx context.Context) ([]Download, error) {
	var out []Download
	err := c.GetJSON(ctx, "/downloads", &out)
	return out, err
}

func (c *Client) Carousel(ctx context.Context) ([]Slide, error) {
	var out []Slide
	err := c.GetJSON(ctx, "/carousel", &out)
	return out, err
}

func (c *Client) AcademicTeam(ctx context.Context) ([]AcademicMember, error) {
	var out []AcademicMember
	err := c.GetJSON(ctx, "/academic-teams", &out)
	return out, err
}

func (c *Client) ExecutiveTeam(ctx context.Context) ([]ExecutiveMember, error) {
	var out []ExecutiveMember
	err := c.GetJSON(ctx, "/executive-teams", &out)
	return out, err
}

func (c *Client) SchoolInfo(ctx context.Context) (SchoolInfo, error) {
	var out SchoolInfo
	err := c.GetJSON(ctx, "/school-info", &out)
	return out, err
}

func (c *Client) About(ctx context.Context) (AboutSchool, error) {
	var out AboutSchool
	err := c.GetJSON(ctx, "/about", &out)
	return out, err
}

func (c *Client) Principal(ctx context.Context) (PrincipalMessage, error) {
	var out PrincipalMessage
	err := c.GetJSON(ctx, "/principal-message", &out)
	return out, err
}

func (c *Client) Menus(ctx context.Context) ([]MenuItem, error) {
	var out []MenuItem
	err := c.GetJSON(ctx, "/menus", &out)
	return out, err
}

func (c *Client) Theme(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	err := c.GetJSON(ctx, "/theme", &out)
	return out, err
}

// SendContactMessage submits a visitor's contact form.
func (c *Client) SendContactMessage(ctx context.Context, name, email, subject, message string) error {
	body := map[string]string{
		"name":    name,
		"email":   email,
		"subject": subject,
		"message": message,
	}
	return c.PostJSON(ctx, "/contact-message", body, nil)
}

// CurrentUser fetches the authenticated admin account.
func (c *Client) CurrentUser(ctx context.Context) (AdminUser, error) {
	var out AdminUser
	err := c.GetJSON(ctx, "/admin/user", &out)
	return out, err
}

func withLimit(path string, limit []int) string {
	if len(limit) > 0 && limit[0] > 0 {
		return fmt.Sprintf("%s?limit=%d", path, limit[0])
	}
	return path
}
