package catalog

import "github.com/kilianp07/chargeplan/core/model"

type cityRow struct {
	id       int
	name     string
	lat, lng float64
	state    string
	typ      model.SiteType
	cost     float64
	demand   float64
	grid     float64
	tier     int
}

// indiaCities lists the 35 candidate cities: cost in capital units, demand
// in daily sessions, grid capacity in kW.
var indiaCities = []cityRow{
	{0, "Delhi", 28.61, 77.21, "Delhi", model.SiteMetro, 95, 480, 800, 1},
	{1, "Mumbai", 19.08, 72.88, "Maharashtra", model.SiteMetro, 110, 520, 900, 1},
	{2, "Bangalore", 12.97, 77.59, "Karnataka", model.SiteMetro, 85, 450, 750, 1},
	{3, "Chennai", 13.08, 80.27, "Tamil Nadu", model.SiteMetro, 80, 380, 700, 1},
	{4, "Hyderabad", 17.39, 78.49, "Telangana", model.SiteMetro, 78, 400, 650, 1},
	{5, "Kolkata", 22.57, 88.36, "West Bengal", model.SiteMetro, 72, 320, 600, 1},
	{6, "Pune", 18.52, 73.86, "Maharashtra", model.SiteCity, 70, 350, 550, 1},
	{7, "Ahmedabad", 23.02, 72.57, "Gujarat", model.SiteCity, 68, 310, 600, 1},
	{8, "Jaipur", 26.91, 75.79, "Rajasthan", model.SiteCity, 58, 220, 450, 2},
	{9, "Lucknow", 26.85, 80.95, "Uttar Pradesh", model.SiteCity, 55, 200, 400, 2},
	{10, "Chandigarh", 30.73, 76.78, "Chandigarh", model.SiteCity, 60, 180, 500, 2},
	{11, "Kochi", 9.93, 76.27, "Kerala", model.SiteCity, 62, 250, 500, 2},
	{12, "Nagpur", 21.15, 79.09, "Maharashtra", model.SiteHighway, 52, 170, 400, 2},
	{13, "Indore", 22.72, 75.86, "Madhya Pradesh", model.SiteCity, 50, 160, 380, 2},
	{14, "Surat", 21.17, 72.83, "Gujarat", model.SiteCity, 65, 280, 550, 2},
	{15, "Vadodara", 22.31, 73.19, "Gujarat", model.SiteHighway, 48, 150, 450, 2},
	{16, "Coimbatore", 11.02, 76.96, "Tamil Nadu", model.SiteCity, 52, 190, 420, 2},
	{17, "Vizag", 17.69, 83.22, "Andhra Pradesh", model.SiteCity, 50, 150, 380, 2},
	{18, "Goa", 15.30, 74.00, "Goa", model.SiteTourism, 58, 200, 350, 2},
	{19, "Bhopal", 23.26, 77.41, "Madhya Pradesh", model.SiteCity, 48, 140, 380, 3},
	{20, "Udaipur", 24.59, 73.71, "Rajasthan", model.SiteTourism, 55, 130, 300, 3},
	{21, "Mysore", 12.30, 76.66, "Karnataka", model.SiteTourism, 48, 140, 380, 3},
	{22, "Amritsar", 31.63, 74.87, "Punjab", model.SiteTourism, 52, 130, 400, 3},
	{23, "Varanasi", 25.32, 83.01, "Uttar Pradesh", model.SiteTourism, 48, 120, 350, 3},
	{24, "Agra", 27.18, 78.02, "Uttar Pradesh", model.SiteTourism, 50, 160, 400, 2},
	{25, "Dehradun", 30.32, 78.03, "Uttarakhand", model.SiteCity, 55, 110, 350, 3},
	{26, "Patna", 25.61, 85.14, "Bihar", model.SiteCity, 45, 130, 300, 3},
	{27, "Ranchi", 23.36, 85.33, "Jharkhand", model.SiteCity, 42, 90, 280, 3},
	{28, "Bhubaneswar", 20.30, 85.82, "Odisha", model.SiteCity, 48, 120, 350, 3},
	{29, "Thiruvananthapuram", 8.52, 76.94, "Kerala", model.SiteCity, 55, 160, 420, 2},
	{30, "Guwahati", 26.14, 91.74, "Assam", model.SiteCity, 50, 80, 250, 3},
	{31, "Raipur", 21.25, 81.63, "Chhattisgarh", model.SiteCity, 44, 100, 320, 3},
	{32, "Mangalore", 12.87, 74.84, "Karnataka", model.SiteCity, 50, 120, 380, 3},
	{33, "Nashik", 19.99, 73.79, "Maharashtra", model.SiteHighway, 48, 140, 400, 3},
	{34, "Kanpur", 26.45, 80.35, "Uttar Pradesh", model.SiteCity, 48, 150, 380, 3},
}

var indiaHighways = []model.HighwayCorridor{
	{Name: "NH-44 (Delhi-Mumbai)", Sites: []int{0, 8, 24, 9, 34, 13, 15, 7, 14, 1}},
	{Name: "NH-48 (Delhi-Mumbai)", Sites: []int{0, 8, 20, 7, 15, 14, 1}},
	{Name: "NH-44 South (Delhi-Chennai)", Sites: []int{0, 24, 8, 13, 4, 2, 3}},
	{Name: "NH-16 (Chennai-Kolkata)", Sites: []int{3, 17, 28, 5}},
	{Name: "NH-6 (Kolkata-Mumbai)", Sites: []int{5, 27, 12, 1}},
	{Name: "NH-44 North (Delhi-Amritsar)", Sites: []int{0, 10, 22}},
	{Name: "NH-66 (Mumbai-Kochi)", Sites: []int{1, 18, 32, 11, 29}},
}

// India returns the built-in catalog of 35 Indian cities and 7 national
// highway corridors.
func India() *model.Catalog {
	sites := make([]model.CandidateSite, len(indiaCities))
	for i, c := range indiaCities {
		s := model.NewSite(c.id, c.name, c.lat, c.lng, c.typ, c.cost, c.demand, c.state)
		s.GridCapacity = c.grid
		s.Tier = c.tier
		sites[i] = s
	}
	corridors := make([]model.HighwayCorridor, len(indiaHighways))
	for i, hw := range indiaHighways {
		corridors[i] = model.HighwayCorridor{Name: hw.Name, Sites: append([]int(nil), hw.Sites...)}
	}
	cat, err := model.NewCatalog(sites, corridors)
	if err != nil {
		panic("catalog: invalid built-in data: " + err.Error())
	}
	return cat
}
