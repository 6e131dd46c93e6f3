package utils

import "sort"

// StatesAndRegions maps each Indian state / union territory to its main market towns.
var StatesAndRegions = map[string][]string{
	"Andhra Pradesh":              {"Visakhapatnam", "Vijayawada", "Guntur", "Nellore", "Kurnool", "Rajahmundry", "Tirupati"},
	"Arunachal Pradesh":           {"Itanagar", "Naharlagun", "Pasighat", "Tawang", "Ziro"},
	"Assam":                       {"Guwahati", "Silchar", "Dibrugarh", "Jorhat", "Nagaon", "Tinsukia"},
	"Bihar":                       {"Patna", "Gaya", "Bhagalpur", "Muzaffarpur", "Darbhanga", "Purnia"},
	"Chhattisgarh":                {"Raipur", "Bhilai", "Bilaspur", "Korba", "Raigarh", "Durg"},
	"Goa":                         {"Panaji", "Margao", "Vasco da Gama", "Mapusa", "Ponda"},
	"Gujarat":                     {"Ahmedabad", "Surat", "Vadodara", "Rajkot", "Bhavnagar", "Jamnagar"},
	"Haryana":                     {"Gurugram", "Faridabad", "Panipat", "Ambala", "Karnal", "Hisar"},
	"Himachal Pradesh":            {"Shimla", "Manali", "Dharamshala", "Kullu", "Mandi", "Solan"},
	"Jharkhand":                   {"Ranchi", "Jamshedpur", "Dhanbad", "Bokaro", "Hazaribagh", "Deoghar"},
	"Karnataka":                   {"Bengaluru", "Mysuru", "Hubballi", "Mangaluru", "Belagavi", "Kalaburagi"},
	"Kerala":                      {"Thiruvananthapuram", "Kochi", "Kozhikode", "Thrissur", "Kollam", "Palakkad"},
	"Madhya Pradesh":              {"Bhopal", "Indore", "Jabalpur", "Gwalior", "Ujjain", "Sagar"},
	"Maharashtra":                 {"Mumbai", "Pune", "Nagpur", "Nashik", "Aurangabad", "Solapur"},
	"Manipur":                     {"Imphal", "Thoubal", "Kakching", "Ukhrul", "Churachandpur"},
	"Meghalaya":                   {"Shillong", "Tura", "Jowai", "Nongpoh", "Williamnagar"},
	"Mizoram":                     {"Aizawl", "Lunglei", "Champhai", "Kolasib", "Serchhip"},
	"Nagaland":                    {"Kohima", "Dimapur", "Mokokchung", "Tuensang", "Wokha"},
	"Odisha":                      {"Bhubaneswar", "Cuttack", "Rourkela", "Berhampur", "Sambalpur", "Puri"},
	"Punjab":                      {"Chandigarh", "Ludhiana", "Amritsar", "Jalandhar", "Patiala", "Bathinda"},
	"Rajasthan":                   {"Jaipur", "Jodhpur", "Udaipur", "Kota", "Ajmer", "Bikaner"},
	"Sikkim":                      {"Gangtok", "Namchi", "Gyalshing", "Mangan", "Rangpo"},
	"Tamil Nadu":                  {"Chennai", "Coimbatore", "Madurai", "Salem", "Tiruchirappalli", "Tirunelveli"},
	"Telangana":                   {"Hyderabad", "Warangal", "Nizamabad", "Karimnagar", "Khammam", "Ramagundam"},
	"Tripura":                     {"Agartala", "Udaipur", "Dharmanagar", "Kailasahar", "Belonia"},
	"Uttar Pradesh":               {"Lucknow", "Kanpur", "Varanasi", "Agra", "Prayagraj", "Meerut"},
	"Uttarakhand":                 {"Dehradun", "Haridwar", "Rishikesh", "Nainital", "Mussoorie", "Haldwani"},
	"West Bengal":                 {"Kolkata", "Howrah", "Durgapur", "Asansol", "Siliguri", "Darjeeling"},
	"Delhi":                       {"New Delhi", "North Delhi", "South Delhi", "East Delhi", "West Delhi"},
	"Jammu and Kashmir":           {"Srinagar", "Jammu", "Anantnag", "Baramulla", "Udhampur", "Leh"},
	"Ladakh":                      {"Leh", "Kargil", "Diskit", "Zanskar", "Nubra"},
	"Puducherry":                  {"Puducherry", "Karaikal", "Mahe", "Yanam"},
	"Andaman and Nicobar Islands": {"Port Blair", "Car Nicobar", "Havelock", "Diglipur"},
	"Chandigarh":                  {"Chandigarh"},
	"Dadra and Nagar Haveli and Daman and Diu": {"Daman", "Diu", "Silvassa"},
	"Lakshadweep": {"Kavaratti", "Agatti", "Amini", "Andrott"},
}

// SortedStates returns the state names alphabetically.
func SortedStates() []string {
	out := make([]string, 0, len(StatesAndRegions))
	for s := range StatesAndRegions {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
