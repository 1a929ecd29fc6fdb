package content

// DefaultMission is shown when no snapshot has produced mission copy yet.
func DefaultMission() Mission {
	return Mission{
		Heading:    "Welcome",
		Subheading: "A community of faith, hope and service",
		Body: []string{
			"We gather each week to worship, to learn and to care for one another.",
			"Everyone is welcome here, whatever brings you through our doors.",
		},
	}
}

// DefaultAbout is shown when no snapshot has produced about copy yet.
func DefaultAbout() About {
	return About{
		Paragraphs: []string{
			"Our parish has served the neighbourhood for generations.",
		},
		QuickLinks: []QuickLink{
			{Label: "Mass times", Target: "/schedule"},
			{Label: "Contact", Target: "/contact"},
		},
	}
}
