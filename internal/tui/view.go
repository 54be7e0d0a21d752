package tui

import "github.com/colonyops/aula/internal/core/config"

// sectionTitle returns the header label of a section.
func sectionTitle(section string) string {
	switch section {
	case config.SectionDownload:
		return "Libro"
	case config.SectionPrograms:
		return "Programas"
	case config.SectionLesson:
		return "Sesión"
	default:
		return "Inicio"
	}
}
