package main

// Site copy. Everything a visitor reads that is not a project card or a
// form message lives here.

var (
	AboutMe = `Hello! I'm a passionate developer with experience in building responsive web applications.
	I love creating user-friendly interfaces and solving challenging problems, and most of my projects
	start with a simple idea that turns into a chance to learn something new.`

	// NavLinks are the in-page anchors shown in the navigation bar.
	NavLinks = []navLink{
		{Href: "#about", Label: "About Me"},
		{Href: "#projects", Label: "Project Gallery"},
		{Href: "#contact", Label: "Contact Form"},
	}

	ContactAcceptedTitle = "Form submitted!"
	ContactAcceptedBody  = "Thank you for your message! I'll get back to you soon."
	ContactDeliveryError = "Sorry, there was an error sending your message. Please try again later."
)

type navLink struct {
	Href  string
	Label string
}

// fieldCopy is the label and placeholder for each contact input.
var fieldCopy = map[string]struct {
	Label       string
	Placeholder string
	Type        string
}{
	"name":    {Label: "Name", Placeholder: "Your Name", Type: "text"},
	"email":   {Label: "Email", Placeholder: "Your Email", Type: "email"},
	"message": {Label: "Message", Placeholder: "Your Message", Type: "textarea"},
}
