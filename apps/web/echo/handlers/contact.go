package handlers

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/resource"
)

type contactForm struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,email"`
	Subject string `form:"subject" json:"subject" validate:"required"`
	Message string `form:"message" json:"message" validate:"required"`
}

func (f *contactForm) Validate() error {
	f.Name = core.CleanString(f.Name)
	f.Email = core.CleanString(f.Email, true)
	f.Subject = core.CleanString(f.Subject)
	f.Message = core.CleanString(f.Message)
	return core.Validate.Struct(f)
}

func (h publicHandler) contact(c echo.Context) error {
	data := h.data(c, "Contact Us")
	data["Form"] = new(contactForm)
	return c.Render(http.StatusOK, "contact.html", data)
}

func (h publicHandler) contactSubmit(c echo.Context) error {
	form := new(contactForm)
	if err := c.Bind(form); err != nil {
		return err
	}

	data := h.data(c, "Contact Us")
	data["Form"] = form

	if err := form.Validate(); err != nil {
		data["Flash"] = &resource.Notification{Kind: "danger", Message: "Please fill in all the fields correctly."}
		return c.Render(http.StatusOK, "contact.html", data)
	}

	ctx := c.Request().Context()
	if err := h.client.SendContactMessage(ctx, form.Name, form.Email, form.Subject, form.Message); err != nil {
		h.logger.Error("submitting contact message", err)
		data["Flash"] = &resource.Notification{Kind: "danger", Message: "Failed to send your message. Please try again."}
		return c.Render(http.StatusOK, "contact.html", data)
	}

	// give the office a heads-up; delivery is fire-and-forget
	if core.Conf.ContactEmail != "" {
		h.email.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: core.Conf.ContactEmail}},
			Subject: "New contact message: " + form.Subject,
			BodyStr: fmt.Sprintf("From: %s <%s>\n\n%s", form.Name, form.Email, form.Message),
		})
	}

	setFlash(c, &resource.Notification{Kind: "success", Message: "Your message has been sent. Thank you!"})
	return c.Redirect(http.StatusSeeOther, "/contact")
}
