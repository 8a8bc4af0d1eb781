// Package seed genera los datos de demo de los cuatro catálogos. Los IDs son
// deterministas para que volver a sembrar una base de datos no duplique nada.
package seed

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	blogDomain "github.com/davicafu/makethechange/internal/blog/domain"
	investmentDomain "github.com/davicafu/makethechange/internal/investment/domain"
	productDomain "github.com/davicafu/makethechange/internal/product/domain"
	projectDomain "github.com/davicafu/makethechange/internal/project/domain"
)

// Base es la fecha de creación del primer elemento de cada catálogo.
var Base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

var namespace = uuid.MustParse("6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f")

// ID devuelve el id estable del elemento n de kind.
func ID(kind string, n int) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%d", kind, n)))
}

type place struct {
	name     string
	lat, lng float64
}

var (
	producers  = []string{"Colmenar del Sur", "Huerta Viva", "Cooperativa Olivar", "Tierra Madre"}
	categories = []string{"miel", "cosmetica", "aceite", "conservas"}
	places     = []place{
		{"Sevilla", 37.3891, -5.9845},
		{"Granada", 37.1773, -3.5986},
		{"Valencia", 39.4699, -0.3763},
		{"Zaragoza", 41.6488, -0.8891},
		{"Lugo", 43.0097, -7.5568},
		{"Cáceres", 39.4753, -6.3724},
	}
	projectKinds = []string{"reforestacion", "energia", "agua", "agricultura"}
	authors      = []string{"Lucía Marín", "Pablo Ortega", "Nerea Gil"}
	postTitles   = []string{
		"Cómo reforestar un monte quemado",
		"Placas solares en cooperativas rurales",
		"Riego por goteo: menos agua, más cosecha",
		"Invertir puntos en proyectos locales",
		"Historias de la comunidad",
	}
	postTags = [][]string{
		{"bosque", "reforestacion"},
		{"solar", "energia"},
		{"agua", "riego"},
		{"inversion", "retornos"},
		{"comunidad"},
	}
)

// Products genera n productos con categorías, productores y stock variados.
func Products(n int) []productDomain.Product {
	out := make([]productDomain.Product, 0, n)
	for i := 0; i < n; i++ {
		created := Base.Add(time.Duration(i) * time.Hour)
		status := productDomain.ProductActive
		stock := 3 + i%12
		switch {
		case i%11 == 10:
			status = productDomain.ProductDraft
		case i%7 == 6:
			status, stock = productDomain.ProductOutOfStock, 0
		}
		category := categories[i%len(categories)]
		out = append(out, productDomain.Product{
			ID:          ID("product", i),
			Name:        fmt.Sprintf("%s artesana nº %d", category, i+1),
			Description: fmt.Sprintf("Lote %d de %s de %s.", i%5+1, category, producers[i%len(producers)]),
			Category:    category,
			Producer:    producers[i%len(producers)],
			Tags:        []string{"km0", fmt.Sprintf("lote%d", i%5+1)},
			Status:      status,
			PricePoints: 50 + (i%9)*25,
			Stock:       stock,
			Featured:    i%8 == 0,
			ImageURL:    fmt.Sprintf("https://img.makethechange.dev/products/%d.jpg", i+1),
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	return out
}

// Projects genera n proyectos repartidos por varias provincias.
func Projects(n int) []projectDomain.Project {
	statuses := []projectDomain.ProjectStatus{
		projectDomain.ProjectFunding, projectDomain.ProjectActive, projectDomain.ProjectFunding,
		projectDomain.ProjectCompleted, projectDomain.ProjectPaused,
	}
	out := make([]projectDomain.Project, 0, n)
	for i := 0; i < n; i++ {
		created := Base.Add(time.Duration(i) * 24 * time.Hour)
		pl := places[i%len(places)]
		kind := projectKinds[i%len(projectKinds)]
		goal := 5000 + (i%6)*2500
		out = append(out, projectDomain.Project{
			ID:           ID("project", i),
			Title:        fmt.Sprintf("Proyecto de %s en %s", kind, pl.name),
			Summary:      fmt.Sprintf("Iniciativa de %s impulsada por %s.", kind, producers[i%len(producers)]),
			Category:     kind,
			Producer:     producers[i%len(producers)],
			Location:     pl.name,
			Lat:          pl.lat,
			Lng:          pl.lng,
			Tags:         []string{kind, pl.name},
			Status:       statuses[i%len(statuses)],
			GoalPoints:   goal,
			RaisedPoints: goal * (i%5 + 1) / 5,
			Featured:     i%6 == 0,
			ImageURL:     fmt.Sprintf("https://img.makethechange.dev/projects/%d.jpg", i+1),
			CreatedAt:    created,
			UpdatedAt:    created,
		})
	}
	return out
}

// Investments genera n inversiones sobre projects (al menos uno).
func Investments(n int, projects []projectDomain.Project) []investmentDomain.Investment {
	if len(projects) == 0 {
		return nil
	}
	statuses := []investmentDomain.InvestmentStatus{
		investmentDomain.InvestmentConfirmed, investmentDomain.InvestmentPending,
		investmentDomain.InvestmentReturning, investmentDomain.InvestmentClosed,
	}
	out := make([]investmentDomain.Investment, 0, n)
	for i := 0; i < n; i++ {
		created := Base.Add(time.Duration(i) * 6 * time.Hour)
		project := projects[i%len(projects)]
		amount := 100 + (i%10)*50
		expected := amount + amount/10
		status := statuses[i%len(statuses)]
		returns := 0
		switch status {
		case investmentDomain.InvestmentReturning:
			returns = expected / 2
		case investmentDomain.InvestmentClosed:
			returns = expected
		}
		out = append(out, investmentDomain.Investment{
			ID:              ID("investment", i),
			ProjectID:       project.ID,
			ProjectTitle:    project.Title,
			Investor:        fmt.Sprintf("inversor%02d@makethechange.dev", i%9+1),
			AmountPoints:    amount,
			ExpectedReturn:  expected,
			ReturnsReceived: returns,
			Status:          status,
			CreatedAt:       created,
			UpdatedAt:       created,
		})
	}
	return out
}

// Posts genera n artículos; uno de cada seis queda en borrador.
func Posts(n int) []blogDomain.Post {
	out := make([]blogDomain.Post, 0, n)
	for i := 0; i < n; i++ {
		created := Base.Add(time.Duration(i) * 48 * time.Hour)
		title := fmt.Sprintf("%s (%d)", postTitles[i%len(postTitles)], i+1)
		p := blogDomain.Post{
			ID:          ID("post", i),
			Title:       title,
			Slug:        fmt.Sprintf("post-%d", i+1),
			Excerpt:     fmt.Sprintf("Resumen del artículo %d.", i+1),
			Author:      authors[i%len(authors)],
			Tags:        append([]string(nil), postTags[i%len(postTags)]...),
			Status:      blogDomain.PostPublished,
			Featured:    i%7 == 0,
			Views:       (i * 37) % 500,
			ReadMinutes: 3 + i%8,
			CoverURL:    fmt.Sprintf("https://img.makethechange.dev/blog/%d.jpg", i+1),
			PublishedAt: created.Add(2 * time.Hour),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if i%6 == 5 {
			p.Status = blogDomain.PostDraft
			p.PublishedAt = time.Time{}
		}
		out = append(out, p)
	}
	return out
}
