package view

import (
	"strings"
	"testing"

	"github.com/portfolio/internal/service"
)

func TestSocialLinksSkipsEmptyAndKeepsOrder(t *testing.T) {
	links := SocialLinks(service.SiteSettings{
		GitHub:   "https://github.com/jane",
		LinkedIn: " https://linkedin.com/in/jane ",
	})

	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Key != "linkedin" || links[0].URL != "https://linkedin.com/in/jane" {
		t.Fatalf("unexpected first link: %+v", links[0])
	}
	if links[1].Key != "github" || !strings.Contains(string(links[1].Icon), "<svg") {
		t.Fatalf("unexpected second link: %+v", links[1])
	}
}

func TestSocialLinksMailto(t *testing.T) {
	links := SocialLinks(service.SiteSettings{Twitter: "mailto:jane@example.com"})
	if len(links) != 1 || links[0].Key != "email" || links[0].Label != "Email" {
		t.Fatalf("expected mailto link to use email icon, got %+v", links)
	}
}

func TestSocialIconFallback(t *testing.T) {
	if SocialIcon("unknown") != SocialIcon("") {
		t.Fatalf("expected unknown keys to share the fallback icon")
	}
	if SocialIcon("GitHub") == SocialIcon("unknown") {
		t.Fatalf("expected github to resolve to its own icon")
	}
}
