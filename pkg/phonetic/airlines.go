package phonetic

// airlines maps ICAO three-letter carrier codes to the name espeak should
// say. Entries are spelled the way they sound, not the way they are
// written ("You Pee Ess"), since the output goes straight to a speech
// synthesizer.
var airlines = map[string]string{
	"AAL": "American",
	"ABX": "Airborne Express",
	"ACA": "Air Canada",
	"AFR": "Air France",
	"AIC": "Air India",
	"AMX": "Aeromexico",
	"ANZ": "Air New Zealand",
	"ASA": "Alaska",
	"BAW": "British Airways",
	"CAL": "China Airlines",
	"CCA": "Air China",
	"CES": "China Eastern Airlines",
	"CSC": "Sichuan Airlines",
	"CSN": "China Southern Airlines",
	"CMP": "Copa Airlines",
	"CPA": "Copa Airlines",
	"DAL": "Delta",
	"DLH": "Lufthansa",
	"EIN": "Aer Lingus",
	"EJA": "Netjets",
	"EVA": "EVA Air",
	"FDX": "FedEx",
	"FDY": "Southern Airways Express",
	"FFT": "Frontier",
	"FFL": "Foreflight",
	"HAL": "Hawaiian",
	"HVN": "National Airlines",
	"JBU": "Jet Blue",
	"JSX": "Jay Ess Ex",
	"KAL": "Korean Air",
	"KLM": "Kay El Em",
	"LXJ": "Flexjet",
	"MXY": "Breeze Airways",
	"NKS": "Spirit Wings",
	"QFA": "Qantas",
	"QTR": "Qatar Airways",
	"QXE": "Horizon Air",
	"PAL": "Philippine Airlines",
	"SKW": "Skywest",
	"SWA": "Southwest",
	"UAE": "Emirates",
	"UAL": "United",
	"USC": "AirNet Express",
	"UPS": "You Pee Ess",
	"VIR": "Virgin Atlantic",
	"VOI": "Volaris",
	"WJA": "West Jet",
}

// Airline returns the spoken name for an ICAO carrier code, falling back
// to spelling the code out phonetically when the carrier is unknown.
func Airline(code string) string {
	if name, ok := airlines[code]; ok {
		return name
	}
	return Expand(code)
}
