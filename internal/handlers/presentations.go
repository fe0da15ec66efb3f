package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type PresentationTemplate struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var presentationTemplates = []PresentationTemplate{
	{Name: "default", Title: "Default", Description: "Default template with a blue and purple gradient"},
	{Name: "corporate", Title: "Corporate", Description: "Professional template for business presentations"},
	{Name: "academic", Title: "Academic", Description: "Template for academic and scientific talks"},
}

const exampleTitle = "Example Presentation"

const exampleMarkdown = "# My Amazing Presentation\n" +
	"\n" +
	"## Introduction\n" +
	"\n" +
	"This presentation was generated from **Markdown**.\n" +
	"\n" +
	"### Features\n" +
	"\n" +
	"- Automatic Markdown conversion\n" +
	"- Responsive, professional design\n" +
	"- Code and formatting support\n" +
	"\n" +
	"## Sample Code\n" +
	"\n" +
	"```go\n" +
	"func hello() string {\n" +
	"\treturn \"Hello, world!\"\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"## Quote\n" +
	"\n" +
	"> \"Technology is best when it brings people together.\" - Matt Mullenweg\n" +
	"\n" +
	"## Conclusion\n" +
	"\n" +
	"- Working system\n" +
	"- Intuitive interface\n" +
	"\n" +
	"**Thank you!**\n"

func ListTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, presentationTemplates)
}

func ExampleMarkdown(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"example": exampleMarkdown,
		"title":   exampleTitle,
	})
}
