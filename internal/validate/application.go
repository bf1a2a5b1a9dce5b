package validate

// ApplicationInput is the raw pilot application payload before
// validation.
type ApplicationInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	WebsiteURL string `json:"website_url"`
	Experience string `json:"experience"`
}

// ApplicationRecord is a fully validated pilot application ready for
// insertion.
type ApplicationRecord struct {
	Name       string
	Email      string
	Phone      string
	Location   string
	WebsiteURL string
	Experience string
}

// Application validates a prospective-pilot intake submission.
func Application(in ApplicationInput) (*ApplicationRecord, error) {
	name, err := requireField("Name", in.Name, maxFieldLen)
	if err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	location, err := requireField("Location", in.Location, maxFieldLen)
	if err != nil {
		return nil, err
	}
	website, err := NormalizeURL(in.WebsiteURL)
	if err != nil {
		return nil, err
	}
	experience, err := requireField("Experience", in.Experience, maxTextLen)
	if err != nil {
		return nil, err
	}
	return &ApplicationRecord{
		Name:       name,
		Email:      email,
		Phone:      optionalField(in.Phone, maxFieldLen),
		Location:   location,
		WebsiteURL: website,
		Experience: experience,
	}, nil
}
