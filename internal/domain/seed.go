package domain

// SeedCatalog returns the fixed NSE demonstration catalog used to initialize
// an empty ledger. IDs and creation timestamps are left zero; the ledger
// assigns them at seeding time.
func SeedCatalog() []Token {
	return []Token{
		{
			Name:            "Kenya Government Bond 2024",
			Symbol:          "KGB24",
			Decimals:        2,
			ISIN:            "KE0000123456",
			TotalSupply:     1000000,
			AvailableSupply: 750000,
			Price:           1000,
			Owner:           NSEOwner,
			Type:            TokenTypeBond,
			Description:     "2-year Kenyan Government Bond with 12.5% annual yield",
			IsNSEListed:     true,
			ImageURL:        "https://images.unsplash.com/photo-1634542984003-e0fb8e200e91?q=80&w=2069&auto=format&fit=crop",
			MarketCap:       1000000000,
			Change24h:       0.25,
			Volume24h:       50000000,
			Sector:          "Government",
			PriceHBAR:       1000,
			PriceUSD:        1000,
			MarketCapHBAR:   1000000000,
			MarketCapUSD:    1000000000,
			Volume24hHBAR:   50000000,
			Volume24hUSD:    50000000,
			Chart7d:         []float64{10, 12, 11, 13, 14, 12, 13},
		},
		{
			Name:            "Safaricom PLC",
			Symbol:          "SCOM",
			Decimals:        2,
			ISIN:            "KE1000001402",
			TotalSupply:     40000000,
			AvailableSupply: 35000000,
			Price:           25.55,
			Owner:           NSEOwner,
			Type:            TokenTypeAsset,
			Description:     "East Africa's leading telecommunications company",
			IsNSEListed:     true,
			ImageURL:        "https://images.unsplash.com/photo-1598128558393-70ff21433be0?q=80&w=2089&auto=format&fit=crop",
			MarketCap:       1022000000,
			Change24h:       -1.2,
			Volume24h:       150000000,
			Sector:          "Telecommunications",
			PriceHBAR:       25.55,
			PriceUSD:        25.55,
			MarketCapHBAR:   1022000000,
			MarketCapUSD:    1022000000,
			Volume24hHBAR:   150000000,
			Volume24hUSD:    150000000,
			Chart7d:         []float64{25, 26, 24, 25.5, 25.2, 25.55, 25.4},
		},
		{
			Name:            "East African Breweries",
			Symbol:          "EABL",
			Decimals:        2,
			ISIN:            "KE2000002002",
			TotalSupply:     790774356,
			AvailableSupply: 600000000,
			Price:           136.25,
			Owner:           NSEOwner,
			Type:            TokenTypeAsset,
			Description:     "Leading manufacturer of beer and spirits in East Africa",
			IsNSEListed:     true,
			ImageURL:        "https://images.unsplash.com/photo-1584225064785-c62a8b43d148?q=80&w=2074&auto=format&fit=crop",
			MarketCap:       107768081,
			Change24h:       2.5,
			Volume24h:       25000000,
			Sector:          "Consumer Goods",
			PriceHBAR:       136.25,
			PriceUSD:        136.25,
			MarketCapHBAR:   107768081,
			MarketCapUSD:    107768081,
			Volume24hHBAR:   25000000,
			Volume24hUSD:    25000000,
			Chart7d:         []float64{134, 135, 135.5, 136, 136.5, 136.25, 136.4},
		},
		{
			Name:            "KCB Group",
			Symbol:          "KCB",
			Decimals:        2,
			ISIN:            "KE3000003000",
			TotalSupply:     3213462815,
			AvailableSupply: 2800000000,
			Price:           36.95,
			Owner:           NSEOwner,
			Type:            TokenTypeAsset,
			Description:     "One of the largest commercial banks in East Africa",
			IsNSEListed:     true,
			ImageURL:        "https://images.unsplash.com/photo-1501167786227-4cba60f6d58f?q=80&w=2070&auto=format&fit=crop",
			MarketCap:       118737451,
			Change24h:       0.8,
			Volume24h:       45000000,
			Sector:          "Banking",
			PriceHBAR:       36.95,
			PriceUSD:        36.95,
			MarketCapHBAR:   118737451,
			MarketCapUSD:    118737451,
			Volume24hHBAR:   45000000,
			Volume24hUSD:    45000000,
			Chart7d:         []float64{36, 36.5, 36.8, 36.9, 37, 36.95, 36.98},
		},
		{
			Name:            "Equity Group Holdings",
			Symbol:          "EQTY",
			Decimals:        2,
			ISIN:            "KE4000004000",
			TotalSupply:     3773674802,
			AvailableSupply: 3200000000,
			Price:           42.75,
			Owner:           NSEOwner,
			Type:            TokenTypeAsset,
			Description:     "Leading financial services provider in East Africa",
			IsNSEListed:     true,
			ImageURL:        "https://images.unsplash.com/photo-1526304640581-d334cdbbf45e?q=80&w=2070&auto=format&fit=crop",
			MarketCap:       161324698,
			Change24h:       1.5,
			Volume24h:       55000000,
			Sector:          "Banking",
			PriceHBAR:       42.75,
			PriceUSD:        42.75,
			MarketCapHBAR:   161324698,
			MarketCapUSD:    161324698,
			Volume24hHBAR:   55000000,
			Volume24hUSD:    55000000,
			Chart7d:         []float64{42, 42.2, 42.4, 42.6, 42.7, 42.75, 42.8},
		},
		{
			Name:            "Kenya Infrastructure Bond 2025",
			Symbol:          "KIFB25",
			Decimals:        2,
			ISIN:            "KE0000567890",
			TotalSupply:     2000000,
			AvailableSupply: 1500000,
			Price:           950,
			Owner:           NSEOwner,
			Type:            TokenTypeBond,
			Description:     "3-year Infrastructure Bond with 11.75% annual yield",
			IsNSEListed:     true,
			ImageURL:        "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?q=80&w=2070&auto=format&fit=crop",
			MarketCap:       1900000000,
			Change24h:       -0.15,
			Volume24h:       25000000,
			Sector:          "Government",
			PriceHBAR:       950,
			PriceUSD:        950,
			MarketCapHBAR:   1900000000,
			MarketCapUSD:    1900000000,
			Volume24hHBAR:   25000000,
			Volume24hUSD:    25000000,
			Chart7d:         []float64{952, 951, 950.5, 950.2, 950.1, 950, 949.9},
		},
	}
}

// NSEOwner is the principal that owns the seeded exchange catalog.
const NSEOwner = "nse@example.com"
