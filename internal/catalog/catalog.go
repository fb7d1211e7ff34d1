// Package catalog holds the static subscription-service price data the SPA
// renders in the questionnaire. Prices are in BRL and tracked by hand.
package catalog

// Plan is one advertised price point of a service.
type Plan struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Service is one cancellable subscription with its price range and
// cancellation instructions.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Logo        string  `json:"logo,omitempty"`
	AvgPriceMin float64 `json:"avg_price_min"`
	AvgPriceMax float64 `json:"avg_price_max"`
	CancelURL   string  `json:"cancel_url,omitempty"`
	HowToCancel string  `json:"how_to_cancel,omitempty"`
	Plans       []Plan  `json:"plans,omitempty"`
}

// Category groups services the way the questionnaire presents them.
type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

var categories = []Category{
	{
		ID:   "streaming",
		Name: "Streaming",
		Services: []Service{
			{
				ID: "netflix", Name: "Netflix", Logo: "https://unavatar.io/netflix.com",
				AvgPriceMin: 21, AvgPriceMax: 60,
				CancelURL:   "https://www.netflix.com/cancelplan",
				HowToCancel: "Acesse Conta > Cancelar assinatura",
				Plans: []Plan{
					{Label: "Padrão c/ anúncios", Price: 20.90},
					{Label: "Padrão", Price: 44.90},
					{Label: "Premium", Price: 59.90},
				},
			},
			{
				ID: "disney-plus", Name: "Disney+", Logo: "https://unavatar.io/disneyplus.com",
				AvgPriceMin: 28, AvgPriceMax: 67,
				CancelURL:   "https://www.disneyplus.com/account",
				HowToCancel: "Entre em Conta > Assinatura > Cancelar",
				Plans: []Plan{
					{Label: "Básico (com anúncios)", Price: 27.90},
					{Label: "Premium (sem anúncios)", Price: 43.90},
				},
			},
			{
				ID: "prime-video", Name: "Prime Video", Logo: "https://unavatar.io/primevideo.com",
				AvgPriceMin: 20, AvgPriceMax: 30,
				CancelURL:   "https://www.amazon.com.br/gp/help/customer/display.html?nodeId=G34EUPKVMYFW8N2U",
				HowToCancel: "Amazon.com.br > Minha conta > Prime > Cancelar",
			},
			{
				ID: "hbo-max", Name: "Max (HBO Max)", Logo: "https://unavatar.io/max.com",
				AvgPriceMin: 30, AvgPriceMax: 56,
				CancelURL:   "https://www.max.com/account",
				HowToCancel: "Perfil > Assinatura > Cancelar",
				Plans: []Plan{
					{Label: "Básico (com anúncios)", Price: 29.90},
					{Label: "Padrão", Price: 44.90},
					{Label: "Platinum", Price: 55.90},
				},
			},
			{
				ID: "globoplay", Name: "Globoplay", Logo: "https://unavatar.io/globoplay.globo.com",
				AvgPriceMin: 23, AvgPriceMax: 40,
				CancelURL:   "https://globoplay.globo.com/minha-conta/assinaturas",
				HowToCancel: "Minha Conta > Assinatura > Cancelar",
			},
			{
				ID: "apple-tv", Name: "Apple TV+", Logo: "https://unavatar.io/apple.com",
				AvgPriceMin: 30, AvgPriceMax: 30,
				CancelURL:   "https://support.apple.com/pt-br/HT202039",
				HowToCancel: "Configurações > [seu nome] > Assinaturas > Cancelar",
			},
			{
				ID: "paramount-plus", Name: "Paramount+", Logo: "https://unavatar.io/paramountplus.com",
				AvgPriceMin: 19, AvgPriceMax: 35,
				CancelURL:   "https://www.paramountplus.com/br/account/",
				HowToCancel: "Conta > Assinatura > Cancelar",
			},
			{
				ID: "spotify", Name: "Spotify", Logo: "https://unavatar.io/spotify.com",
				AvgPriceMin: 24, AvgPriceMax: 41,
				CancelURL:   "https://www.spotify.com/br/account/subscription/",
				HowToCancel: "Conta > Sua assinatura > Cancelar Premium",
				Plans: []Plan{
					{Label: "Individual", Price: 21.90},
					{Label: "Duo", Price: 27.90},
					{Label: "Família", Price: 34.90},
				},
			},
			{
				ID: "youtube-premium", Name: "YouTube Premium", Logo: "https://unavatar.io/youtube.com",
				AvgPriceMin: 20, AvgPriceMax: 35,
				CancelURL:   "https://www.youtube.com/paid_memberships",
				HowToCancel: "Configurações > Compras e assinaturas > Cancelar",
				Plans: []Plan{
					{Label: "Individual", Price: 24.90},
					{Label: "Família", Price: 34.90},
				},
			},
			{
				ID: "deezer", Name: "Deezer", Logo: "https://unavatar.io/deezer.com",
				AvgPriceMin: 25, AvgPriceMax: 40,
				HowToCancel: "Minha conta > Assinatura > Cancelar",
			},
			{
				ID: "apple-music", Name: "Apple Music", Logo: "https://unavatar.io/apple.com",
				AvgPriceMin: 22, AvgPriceMax: 35,
				HowToCancel: "Configurações > [seu nome] > Assinaturas > Cancelar",
			},
		},
	},
	{
		ID:   "utilitarios",
		Name: "Utilitários",
		Services: []Service{
			{
				ID: "icloud", Name: "iCloud+", Logo: "https://unavatar.io/icloud.com",
				AvgPriceMin: 5, AvgPriceMax: 35,
				HowToCancel: "Configurações > [seu nome] > iCloud > Gerenciar armazenamento",
			},
			{
				ID: "google-one", Name: "Google One", Logo: "https://unavatar.io/one.google.com",
				AvgPriceMin: 7, AvgPriceMax: 50,
				CancelURL:   "https://one.google.com/settings",
				HowToCancel: "one.google.com > Configurações > Cancelar assinatura",
			},
			{
				ID: "dropbox", Name: "Dropbox", Logo: "https://unavatar.io/dropbox.com",
				AvgPriceMin: 60, AvgPriceMax: 100,
				HowToCancel: "Conta > Plano > Cancelar",
			},
		},
	},
	{
		ID:   "produtividade",
		Name: "Produtividade",
		Services: []Service{
			{
				ID: "chatgpt-plus", Name: "ChatGPT Plus", Logo: "https://unavatar.io/openai.com",
				AvgPriceMin: 100, AvgPriceMax: 120,
				HowToCancel: "Settings > Subscription > Cancel",
			},
			{
				ID: "canva-pro", Name: "Canva Pro", Logo: "https://unavatar.io/canva.com",
				AvgPriceMin: 35, AvgPriceMax: 45,
				HowToCancel: "Configurações > Cobrança e planos > Cancelar",
			},
			{
				ID: "notion", Name: "Notion", Logo: "https://unavatar.io/notion.so",
				AvgPriceMin: 40, AvgPriceMax: 60,
				HowToCancel: "Settings > Plans > Downgrade",
			},
			{
				ID: "microsoft-365", Name: "Microsoft 365", Logo: "https://unavatar.io/microsoft.com",
				AvgPriceMin: 36, AvgPriceMax: 46,
				HowToCancel: "account.microsoft.com > Serviços e assinaturas > Cancelar",
			},
		},
	},
	{
		ID:   "educacao",
		Name: "Educação",
		Services: []Service{
			{
				ID: "duolingo", Name: "Duolingo Plus", Logo: "https://unavatar.io/duolingo.com",
				AvgPriceMin: 30, AvgPriceMax: 40,
				HowToCancel: "Configurações > Super Duolingo > Cancelar",
			},
			{
				ID: "alura", Name: "Alura", Logo: "https://unavatar.io/alura.com.br",
				AvgPriceMin: 75, AvgPriceMax: 110,
				HowToCancel: "Minha conta > Assinatura > Cancelar",
			},
		},
	},
	{
		ID:   "marketplaces",
		Name: "Marketplaces",
		Services: []Service{
			{
				ID: "amazon-prime", Name: "Amazon Prime", Logo: "https://unavatar.io/amazon.com.br",
				AvgPriceMin: 20, AvgPriceMax: 20,
				HowToCancel: "Minha conta > Prime > Encerrar assinatura",
			},
			{
				ID: "meli-plus", Name: "Meli+", Logo: "https://unavatar.io/mercadolivre.com.br",
				AvgPriceMin: 18, AvgPriceMax: 28,
				HowToCancel: "Minha conta > Assinaturas > Cancelar",
			},
		},
	},
	{
		ID:   "social",
		Name: "Social",
		Services: []Service{
			{
				ID: "telegram-premium", Name: "Telegram Premium", Logo: "https://unavatar.io/telegram.org",
				AvgPriceMin: 25, AvgPriceMax: 25,
				HowToCancel: "Configurações > Telegram Premium > Cancelar",
			},
			{
				ID: "linkedin-premium", Name: "LinkedIn Premium", Logo: "https://unavatar.io/linkedin.com",
				AvgPriceMin: 120, AvgPriceMax: 240,
				HowToCancel: "Configurações > Conta > Gerenciar Premium",
			},
		},
	},
	{
		ID:   "games",
		Name: "Games",
		Services: []Service{
			{
				ID: "xbox-game-pass", Name: "Xbox Game Pass", Logo: "https://unavatar.io/xbox.com",
				AvgPriceMin: 30, AvgPriceMax: 60,
				HowToCancel: "account.microsoft.com > Serviços > Cancelar",
			},
			{
				ID: "playstation-plus", Name: "PlayStation Plus", Logo: "https://unavatar.io/playstation.com",
				AvgPriceMin: 35, AvgPriceMax: 70,
				HowToCancel: "Configurações > Usuários e contas > Assinaturas",
			},
		},
	},
	{
		ID:   "fitness",
		Name: "Fitness",
		Services: []Service{
			{
				ID: "smartfit", Name: "Smart Fit", Logo: "https://unavatar.io/smartfit.com.br",
				AvgPriceMin: 90, AvgPriceMax: 160,
				HowToCancel: "App > Perfil > Plano > Cancelar",
			},
			{
				ID: "gympass", Name: "Wellhub (Gympass)", Logo: "https://unavatar.io/wellhub.com",
				AvgPriceMin: 30, AvgPriceMax: 230,
				HowToCancel: "App > Perfil > Gerenciar plano",
			},
		},
	},
	{
		ID:   "transporte",
		Name: "Transporte",
		Services: []Service{
			{
				ID: "uber-one", Name: "Uber One", Logo: "https://unavatar.io/uber.com",
				AvgPriceMin: 20, AvgPriceMax: 20,
				HowToCancel: "App > Perfil > Uber One > Cancelar",
			},
			{
				ID: "99-plus", Name: "99 Plus", Logo: "https://unavatar.io/99app.com",
				AvgPriceMin: 20, AvgPriceMax: 30,
				HowToCancel: "App > Menu > 99 Plus > Cancelar assinatura",
			},
			{
				ID: "sem-parar", Name: "Sem Parar", Logo: "https://unavatar.io/semparar.com.br",
				AvgPriceMin: 29, AvgPriceMax: 29,
				HowToCancel: "App > Menu > Minha conta > Cancelar",
			},
			{
				ID: "veloe", Name: "Veloe", Logo: "https://unavatar.io/veloe.com.br",
				AvgPriceMin: 19, AvgPriceMax: 19,
				HowToCancel: "App > Configurações > Cancelar",
			},
		},
	},
	{
		ID:   "extras",
		Name: "Extras",
		Services: []Service{
			{
				ID: "internet", Name: "Internet",
				AvgPriceMin: 80, AvgPriceMax: 150,
				HowToCancel: "Entre em contato com sua operadora",
			},
			{
				ID: "celular", Name: "Celular",
				AvgPriceMin: 50, AvgPriceMax: 100,
				HowToCancel: "Entre em contato com sua operadora",
			},
			{
				ID: "tv-assinatura", Name: "TV por assinatura",
				AvgPriceMin: 100, AvgPriceMax: 200,
				HowToCancel: "Entre em contato com sua operadora",
			},
			{
				ID: "academia-outros", Name: "Academia (outros)",
				AvgPriceMin: 80, AvgPriceMax: 150,
				HowToCancel: "Fale com a recepção da academia",
			},
			{
				ID: "outros", Name: "Outros",
				AvgPriceMin: 0, AvgPriceMax: 999,
				HowToCancel: "Depende do serviço",
			},
		},
	},
}

var serviceIndex = buildIndex()

func buildIndex() map[string]*Service {
	idx := make(map[string]*Service)
	for ci := range categories {
		for si := range categories[ci].Services {
			svc := &categories[ci].Services[si]
			idx[svc.ID] = svc
		}
	}
	return idx
}

// Categories returns every category with its services.
func Categories() []Category {
	return categories
}

// GetServiceByID resolves a service id to its catalog entry, or nil for
// custom services the user typed in.
func GetServiceByID(id string) *Service {
	return serviceIndex[id]
}
