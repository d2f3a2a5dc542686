package resource

// Registry enumerates every modal-CRUD content type administered through the
// generic engine, in sidebar order. The singleton screens (school info,
// about, principal message, theme, password) have dedicated handlers.
func Registry() []Config {
	return []Config{
		coursesConfig(),
		newsConfig(),
		noticesConfig(),
		eventsConfig(),
		galleryConfig(),
		carouselConfig(),
		academicTeamsConfig(),
		executiveTeamsConfig(),
		downloadsConfig(),
	}
}

// Lookup returns the config for a plural slug.
func Lookup(name string) (Config, bool) {
	for _, cfg := range Registry() {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return Config{}, false
}

func visibilityField() Field {
	return Field{
		Name: "visibility", Label: "Visibility", Kind: Select, Bool: true, Default: "1",
		Options: []Option{{Value: "1", Label: "Visible"}, {Value: "0", Label: "Hidden"}},
	}
}

func coursesConfig() Config {
	return Config{
		Name:           "courses",
		Singular:       "course",
		Title:          "Courses",
		ListEndpoint:   adminPath("courses"),
		CreateEndpoint: adminPath("courses"),
		UpdateEndpoint: adminItemPath("courses"),
		DeleteEndpoint: adminItemPath("courses"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: Textarea},
			visibilityField(),
			{Name: "bg_picture", Label: "Background Picture", Kind: File},
		},
		SearchField:     "title",
		FileField:       "bg_picture",
		VisibilityField: "visibility",
	}
}

func newsConfig() Config {
	return Config{
		Name:           "news",
		Singular:       "news item",
		Title:          "News",
		ListEndpoint:   adminPath("news"),
		CreateEndpoint: adminPath("news"),
		UpdateEndpoint: adminItemPath("news"),
		DeleteEndpoint: adminItemPath("news"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "summary", Label: "Summary", Kind: Textarea},
			{Name: "content", Label: "Content", Kind: Textarea},
			{Name: "published_at", Label: "Published At", Kind: DateTime},
			{Name: "image_url", Label: "Image", Kind: File},
			visibilityField(),
		},
		SearchField:     "title",
		FileField:       "image_url",
		VisibilityField: "visibility",
	}
}

func noticesConfig() Config {
	return Config{
		Name:           "notices",
		Singular:       "notice",
		Title:          "Notices",
		ListEndpoint:   adminPath("notices"),
		CreateEndpoint: adminPath("notices"),
		UpdateEndpoint: adminItemPath("notices"),
		DeleteEndpoint: adminItemPath("notices"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: Textarea},
			{
				Name: "popup", Label: "Popup", Kind: Select, Default: "no",
				Options: []Option{{Value: "no", Label: "No"}, {Value: "yes", Label: "Yes"}},
			},
			visibilityField(),
			{Name: "published_at", Label: "Published At", Kind: DateTime},
			{Name: "file_url", Label: "File", Kind: File},
		},
		SearchField:     "title",
		FileField:       "file_url",
		VisibilityField: "visibility",
	}
}

func eventsConfig() Config {
	return Config{
		Name:           "events",
		Singular:       "event",
		Title:          "Events",
		ListEndpoint:   adminPath("events"),
		CreateEndpoint: adminPath("events"),
		UpdateEndpoint: adminItemPath("events"),
		DeleteEndpoint: adminItemPath("events"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: Textarea},
			{Name: "event_date", Label: "Date", Kind: Date, Required: true},
			{Name: "event_date_nepali", Label: "Date (BS)", Kind: Text},
			{Name: "event_time", Label: "Time", Kind: Text},
			{Name: "duration", Label: "Duration", Kind: Text},
			{Name: "location", Label: "Location", Kind: Text},
			{Name: "photo", Label: "Photo", Kind: File},
		},
		SearchField: "title",
		FileField:   "photo",
	}
}

func galleryConfig() Config {
	return Config{
		Name:           "gallery",
		Singular:       "gallery image",
		Title:          "Gallery",
		ListEndpoint:   adminPath("gallery"),
		CreateEndpoint: adminPath("gallery"),
		UpdateEndpoint: adminItemPath("gallery"),
		DeleteEndpoint: adminItemPath("gallery"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: Textarea},
			visibilityField(),
			{Name: "image_url", Label: "Image", Kind: File, Required: true},
		},
		SearchField:     "title",
		FileField:       "image_url",
		VisibilityField: "visibility",
	}
}

func carouselConfig() Config {
	return Config{
		Name:           "carousel",
		Singular:       "slide",
		Title:          "Carousel",
		ListEndpoint:   adminPath("carousel"),
		CreateEndpoint: adminPath("carousel"),
		UpdateEndpoint: adminItemPath("carousel"),
		DeleteEndpoint: adminItemPath("carousel"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "subtitle", Label: "Subtitle", Kind: Text},
			{Name: "link", Label: "Link", Kind: Text},
			{Name: "position", Label: "Position", Kind: Number, Default: "0"},
			{
				Name: "active", Label: "Active", Kind: Select, Bool: true, Default: "1",
				Options: []Option{{Value: "1", Label: "Active"}, {Value: "0", Label: "Inactive"}},
			},
			{Name: "image_url", Label: "Image", Kind: File},
		},
		SearchField:     "title",
		FileField:       "image_url",
		VisibilityField: "active",
	}
}

func academicTeamsConfig() Config {
	return Config{
		Name:           "academic-teams",
		Singular:       "academic member",
		Title:          "Academic Team",
		ListEndpoint:   adminPath("academic-teams"),
		CreateEndpoint: adminPath("academic-teams"),
		UpdateEndpoint: adminItemPath("academic-teams"),
		DeleteEndpoint: adminItemPath("academic-teams"),
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: Text, Required: true},
			{Name: "designation", Label: "Designation", Kind: Text},
			{Name: "qualification", Label: "Qualification", Kind: Text},
			{Name: "phone", Label: "Phone", Kind: Text},
			{Name: "email", Label: "Email", Kind: Text},
			visibilityField(),
			{Name: "photo", Label: "Photo", Kind: File},
		},
		SearchField:     "name",
		FileField:       "photo",
		VisibilityField: "visibility",
	}
}

func executiveTeamsConfig() Config {
	return Config{
		Name:           "executive-teams",
		Singular:       "executive member",
		Title:          "Executive Team",
		ListEndpoint:   adminPath("executive-teams"),
		CreateEndpoint: adminPath("executive-teams"),
		UpdateEndpoint: adminItemPath("executive-teams"),
		DeleteEndpoint: adminItemPath("executive-teams"),
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: Text, Required: true},
			{Name: "position", Label: "Position", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: Textarea},
			visibilityField(),
			{Name: "image", Label: "Photo", Kind: File},
		},
		SearchField:     "name",
		FileField:       "image",
		VisibilityField: "visibility",
	}
}

func downloadsConfig() Config {
	return Config{
		Name:           "downloads",
		Singular:       "download",
		Title:          "Downloads",
		ListEndpoint:   adminPath("downloads"),
		CreateEndpoint: adminPath("downloads"),
		UpdateEndpoint: adminItemPath("downloads"),
		DeleteEndpoint: adminItemPath("downloads"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: Textarea},
			visibilityField(),
			{Name: "file_url", Label: "File", Kind: File},
		},
		SearchField:     "title",
		FileField:       "file_url",
		VisibilityField: "visibility",
	}
}
