package search

import "regexp"

// The tables below encode domain knowledge about Turkish legal vocabulary.
// They are compiled in rather than configured: the vocabulary changes at the
// pace of legal drafting conventions, not deployments.

// legalSynonyms maps a term to its legal synonyms.
var legalSynonyms = map[string][]string{
	"kanun":      {"yasa", "mevzuat", "düzenleme", "hüküm"},
	"madde":      {"bent", "fıkra", "paragraf", "bölüm"},
	"yönetmelik": {"tüzük", "nizamname", "talimat"},
	"mahkeme":    {"adliye", "hâkim", "yargı", "dava"},
	"ceza":       {"müeyyide", "yaptırım", "hapis", "para cezası"},
	"sözleşme":   {"mukavele", "kontrat", "anlaşma", "protokol"},
	"taraf":      {"kişi", "şahıs", "gerçek kişi", "tüzel kişi"},
	"hak":        {"yetki", "salahiyet", "imtiyaz", "ayrıcalık"},
	"yükümlülük": {"sorumluluk", "vecibe", "borç", "mükellefiye"},
	"iptal":      {"fesih", "kaldırma", "lağvetme", "ref"},
	"temyiz":     {"itiraz", "başvuru", "şikâyet", "dava"},
	"icra":       {"infaz", "uygulama", "tatbik", "yürütme"},
	"miras":      {"veraset", "tereke", "vefat", "intikal"},
	"evlilik":    {"nikâh", "izdivac", "birliktelik", "aile"},
	"boşanma":    {"ayrılık", "fesh-i nikâh", "talak", "tefrik"},
	"çocuk":      {"küçük", "reşit olmayan", "vesayet", "velaye"},
	"mülkiyet":   {"sahiplik", "tasarruf", "zilyetlik", "hak"},
	"kira":       {"icara", "kiralama", "istisna", "ecr"},
	"satış":      {"bey", "devir", "temlik", "satım"},
	"borç":       {"deyn", "zimmet", "yükümlülük", "taahhüt"},
	"alacak":     {"hak", "istihkak", "talep", "dava"},
	"faiz":       {"kâr", "ribâ", "getiri", "nema"},
	"tazminat":   {"zarar", "ziyan", "tenfiz", "telafi"},
	"vergi":      {"resim", "harç", "gümrük", "bac"},
	"beyan":      {"bildirim", "ihbar", "duyuru", "tebliğ"},
	"denetim":    {"kontrol", "teftiş", "murakabe", "inceleme"},
	"cezai":      {"adli", "yargısal", "muhakeme", "takibat"},
}

// legalAbbreviations maps an abbreviation to its full statute or body name.
var legalAbbreviations = map[string]string{
	"TCK":    "Türk Ceza Kanunu",
	"TMK":    "Türk Medeni Kanunu",
	"TBK":    "Türk Borçlar Kanunu",
	"TTK":    "Türk Ticaret Kanunu",
	"İK":     "İş Kanunu",
	"VUK":    "Vergi Usul Kanunu",
	"GVK":    "Gelir Vergisi Kanunu",
	"AATUHK": "Amme Alacaklarının Tahsil Usulü Hakkında Kanun",
	"CMK":    "Ceza Muhakemesi Kanunu",
	"HMK":    "Hukuk Muhakemesi Kanunu",
	"İİK":    "İcra ve İflas Kanunu",
	"HUMK":   "Hukuk Usulü Muhakemeleri Kanunu",
	"SSGSSK": "Sosyal Sigortalar ve Genel Sağlık Sigortası Kanunu",
	"KVKK":   "Kişisel Verilerin Korunması Kanunu",
	"MGTK":   "Milli Güvenlik ve Terörle Mücadele",
	"HSYK":   "Hâkimler ve Savcılar Yüksek Kurulu",
	"TBMM":   "Türkiye Büyük Millet Meclisi",
	"AYM":    "Anayasa Mahkemesi",
	"YDKK":   "Yükseköğretim Kalite Kurulu",
}

// termDomains maps a term to its legal domain.
var termDomains = map[string]string{
	// ceza hukuku
	"suç": "ceza", "ceza": "ceza", "hapis": "ceza", "mahkumiyet": "ceza",
	"beraat": "ceza", "savcı": "ceza", "sanık": "ceza", "mağdur": "ceza",

	// medeni hukuk
	"evlilik": "medeni", "boşanma": "medeni", "miras": "medeni",
	"vesayet": "medeni", "aile": "medeni", "çocuk": "medeni",

	// ticaret hukuku
	"şirket": "ticaret", "anonim": "ticaret", "limited": "ticaret",
	"ortaklık": "ticaret", "ticaret": "ticaret", "tacir": "ticaret",

	// vergi hukuku
	"vergi": "vergi", "beyan": "vergi", "matrah": "vergi",
	"stopaj": "vergi", "kdv": "vergi", "ötv": "vergi",

	// iş hukuku
	"işçi": "is", "işveren": "is", "çalışma": "is",
	"sendika": "is", "ücret": "is", "işsizlik": "is",

	// idare hukuku
	"idare": "idare", "belediye": "idare", "valilik": "idare",
	"kamu": "idare", "memur": "idare", "devlet": "idare",
}

// domainIndicators score a query against each legal domain.
var domainIndicators = map[string][]string{
	"ceza":    {"ceza", "suç", "mahkumiyet", "hapis", "para cezası"},
	"medeni":  {"medeni", "evlilik", "boşanma", "miras", "aile"},
	"ticaret": {"ticaret", "şirket", "anonim", "limited", "ortaklık"},
	"vergi":   {"vergi", "gelir", "stopaj", "kdv", "özel tüketim"},
	"idare":   {"idari", "belediye", "valilik", "kamu", "devlet"},
	"is":      {"işçi", "işveren", "çalışma", "sendika", "ücret"},
}

// domainBoostTerms back the semantic context boost per domain.
var domainBoostTerms = map[string][]string{
	"ceza":    {"ceza", "suç", "mahkumiyet"},
	"medeni":  {"medeni", "evlilik", "miras"},
	"ticaret": {"ticaret", "şirket", "ortaklık"},
	"vergi":   {"vergi", "gelir", "beyan"},
	"is":      {"işçi", "çalışma", "sendika"},
	"idare":   {"idari", "kamu", "devlet"},
}

// domainOrder fixes the tie-break when two domains score equally.
var domainOrder = []string{"ceza", "medeni", "ticaret", "vergi", "is", "idare"}

// turkishStopwords are filtered out during term extraction.
var turkishStopwords = map[string]bool{
	"bir": true, "bu": true, "şu": true, "ve": true, "veya": true,
	"ile": true, "için": true, "den": true, "dan": true, "de": true,
	"da": true, "nin": true, "nın": true, "nun": true, "nün": true,
	"in": true, "ın": true, "un": true, "ün": true, "a": true,
	"e": true, "i": true, "ı": true, "o": true, "ö": true,
	"u": true, "ü": true, "ya": true, "ye": true, "ten": true,
	"ne": true, "ki": true, "mi": true, "mı": true, "mu": true,
	"mü": true, "dı": true, "di": true, "du": true, "dü": true,
	"tı": true, "ti": true, "tu": true, "tü": true, "la": true,
	"le": true, "ta": true, "te": true, "sa": true, "se": true,
	"ca": true, "ce": true, "na": true,
}

// legalStopwords are terms too common in legal prose to discriminate.
var legalStopwords = map[string]bool{
	"hakkında": true, "ilişkin": true, "dair": true, "göre": true,
	"uygun": true, "karşı": true, "aykırı": true, "usul": true,
	"esasa": true, "şekil": true, "husus": true, "mevzu": true,
	"konu": true, "alan": true,
}

// compoundPatterns capture multi-word statute references like
// "ceza kanunu" or "imar yönetmeliği" as single terms.
var compoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[\p{L}\p{N}]+\s+kanunu?`),
	regexp.MustCompile(`(?i)[\p{L}\p{N}]+\s+yönetmeliği?`),
	regexp.MustCompile(`(?i)[\p{L}\p{N}]+\s+tüzüğü?`),
	regexp.MustCompile(`(?i)[\p{L}\p{N}]+\s+genelgesi?`),
	regexp.MustCompile(`(?i)[\p{L}\p{N}]+\s+tebliği?`),
	regexp.MustCompile(`(?i)[\p{L}\p{N}]+\s+kararı?`),
}
