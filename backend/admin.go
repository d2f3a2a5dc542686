package backend

import "context"

// Admin endpoints. All of these require a client carrying a bearer token;
// an anonymous call comes back as an authentication failure.

func (c *Client) ContactMessages(ctx context.Context) ([]ContactMessage, error) {
	var out []ContactMessage
	err := c.GetJSON(ctx, "/admin/contact-messages", &out)
	return out, err
}

// MarkContactMessageRead flips the message status to read.
func (c *Client) MarkContactMessageRead(ctx context.Context, id int) error {
	body := map[string]int{"status": 1}
	return c.PostJSON(ctx, "/admin/contact-messages/"+itoa(id)+"/status", body, nil)
}

func (c *Client) DeleteContactMessage(ctx context.Context, id int) error {
	return c.Delete(ctx, "/admin/contact-messages/"+itoa(id))
}

// SaveTheme persists the palette. Unknown names are passed through; the
// backend keeps whatever it recognizes.
func (c *Client) SaveTheme(ctx context.Context, palette map[string]string) error {
	return c.PostJSON(ctx, "/admin/theme", palette, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, password, confirmation string) error {
	body := map[string]string{
		"current_password":      current,
		"password":              password,
		"password_confirmation": confirmation,
	}
	return c.PostJSON(ctx, "/admin/change-password", body, nil)
}

// SaveSchoolInfo updates the school info singleton. Omitted file parts keep
// the stored files untouched.
func (c *Client) SaveSchoolInfo(ctx context.Context, fields []FormField, files ...*Upload) error {
	return c.PostMultipart(ctx, "/admin/school-info/update", fields, nil, files...)
}

func (c *Client) SaveAboutSchool(ctx context.Context, fields []FormField, image *Upload) error {
	return c.PostMultipart(ctx, "/admin/about-school/update", fields, nil, image)
}

func (c *Client) SavePrincipalMessage(ctx context.Context, fields []FormField, photo *Upload) error {
	return c.PostMultipart(ctx, "/admin/principal-message/save", fields, nil, photo)
}
