package list

import "strings"

// SuggestSection guesses the supermarket section for an item name.
// Exact match first, then substring match with longer keywords taking
// priority. Returns "" when nothing matches; the caller leaves the item
// uncategorized.
func SuggestSection(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return ""
	}

	if sec, ok := exactMatch[name]; ok {
		return sec
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.section
		}
	}

	return ""
}

// Section names match the seeded supermarket_sections rows.
const (
	secProduce   = "Frutas y Verduras"
	secMeat      = "Carnicería"
	secFish      = "Pescadería"
	secBakery    = "Panadería"
	secDairy     = "Lácteos"
	secFrozen    = "Congelados"
	secPantry    = "Despensa"
	secDrinks    = "Bebidas"
	secCleaning  = "Limpieza"
	secToiletrie = "Higiene"
)

var exactMatch = map[string]string{
	// Frutas y Verduras
	"manzana":    secProduce,
	"manzanas":   secProduce,
	"plátano":    secProduce,
	"plátanos":   secProduce,
	"platano":    secProduce,
	"naranja":    secProduce,
	"naranjas":   secProduce,
	"limón":      secProduce,
	"limones":    secProduce,
	"aguacate":   secProduce,
	"tomate":     secProduce,
	"tomates":    secProduce,
	"patata":     secProduce,
	"patatas":    secProduce,
	"cebolla":    secProduce,
	"cebollas":   secProduce,
	"ajo":        secProduce,
	"lechuga":    secProduce,
	"espinacas":  secProduce,
	"zanahoria":  secProduce,
	"zanahorias": secProduce,
	"pepino":     secProduce,
	"pimiento":   secProduce,
	"pimientos":  secProduce,
	"calabacín":  secProduce,
	"champiñones": secProduce,
	"fresas":     secProduce,
	"uvas":       secProduce,
	"sandía":     secProduce,
	"melón":      secProduce,
	"pera":       secProduce,
	"peras":      secProduce,

	// Carnicería
	"pollo":       secMeat,
	"ternera":     secMeat,
	"cerdo":       secMeat,
	"pavo":        secMeat,
	"bacon":       secMeat,
	"jamón":       secMeat,
	"chorizo":     secMeat,
	"salchichas":  secMeat,
	"lomo":        secMeat,
	"carne picada": secMeat,

	// Pescadería
	"salmón":     secFish,
	"atún":       secFish,
	"merluza":    secFish,
	"gambas":     secFish,
	"bacalao":    secFish,
	"dorada":     secFish,
	"lubina":     secFish,
	"boquerones": secFish,

	// Panadería
	"pan":           secBakery,
	"pan de molde":  secBakery,
	"baguette":      secBakery,
	"croissants":    secBakery,
	"magdalenas":    secBakery,
	"tortitas":      secBakery,

	// Lácteos
	"leche":        secDairy,
	"huevos":       secDairy,
	"mantequilla":  secDairy,
	"queso":        secDairy,
	"yogur":        secDairy,
	"yogures":      secDairy,
	"nata":         secDairy,
	"queso fresco": secDairy,

	// Despensa
	"arroz":       secPantry,
	"pasta":       secPantry,
	"harina":      secPantry,
	"azúcar":      secPantry,
	"sal":         secPantry,
	"aceite":      secPantry,
	"aceite de oliva": secPantry,
	"vinagre":     secPantry,
	"ketchup":     secPantry,
	"mostaza":     secPantry,
	"mayonesa":    secPantry,
	"miel":        secPantry,
	"cereales":    secPantry,
	"garbanzos":   secPantry,
	"lentejas":    secPantry,
	"macarrones":  secPantry,
	"espaguetis":  secPantry,
	"tomate frito": secPantry,

	// Congelados
	"helado":        secFrozen,
	"pizza congelada": secFrozen,
	"guisantes":     secFrozen,

	// Bebidas
	"agua":      secDrinks,
	"zumo":      secDrinks,
	"café":      secDrinks,
	"té":        secDrinks,
	"cerveza":   secDrinks,
	"vino":      secDrinks,
	"refresco":  secDrinks,
	"cola":      secDrinks,

	// Limpieza
	"papel de cocina":  secCleaning,
	"papel higiénico":  secCleaning,
	"bolsas de basura": secCleaning,
	"lavavajillas":     secCleaning,
	"detergente":       secCleaning,
	"lejía":            secCleaning,
	"estropajos":       secCleaning,
	"servilletas":      secCleaning,

	// Higiene
	"champú":          secToiletrie,
	"gel":             secToiletrie,
	"gel de ducha":    secToiletrie,
	"pasta de dientes": secToiletrie,
	"desodorante":     secToiletrie,
	"crema":           secToiletrie,
	"cuchillas":       secToiletrie,
	"pañuelos":        secToiletrie,
}

type substringEntry struct {
	keyword string
	section string
}

// Ordered with longer keywords first so the most specific match wins.
var substringMatches = []substringEntry{
	{"pechuga de pollo", secMeat},
	{"carne picada", secMeat},
	{"filete", secMeat},
	{"chuleta", secMeat},
	{"congelad", secFrozen},
	{"helado", secFrozen},
	{"queso fresco", secDairy},
	{"leche", secDairy},
	{"yogur", secDairy},
	{"queso", secDairy},
	{"huevo", secDairy},
	{"mantequilla", secDairy},
	{"pan de", secBakery},
	{"pan ", secBakery},
	{"bollería", secBakery},
	{"ensalada", secProduce},
	{"fruta", secProduce},
	{"verdura", secProduce},
	{"tomate", secProduce},
	{"patata", secProduce},
	{"cebolla", secProduce},
	{"pimiento", secProduce},
	{"pescado", secFish},
	{"marisco", secFish},
	{"gamba", secFish},
	{"aceite", secPantry},
	{"salsa", secPantry},
	{"conserva", secPantry},
	{"lata de", secPantry},
	{"arroz", secPantry},
	{"pasta", secPantry},
	{"cereal", secPantry},
	{"galleta", secPantry},
	{"zumo", secDrinks},
	{"agua", secDrinks},
	{"refresco", secDrinks},
	{"cerveza", secDrinks},
	{"vino", secDrinks},
	{"limpi", secCleaning},
	{"detergente", secCleaning},
	{"papel higiénico", secCleaning},
	{"bolsa de basura", secCleaning},
	{"champú", secToiletrie},
	{"jabón", secToiletrie},
	{"dentífrico", secToiletrie},
	{"desodorante", secToiletrie},
}
