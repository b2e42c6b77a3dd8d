package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/campusbites/campusbites/internal/cart"
	"github.com/campusbites/campusbites/internal/domain"
)

// FormatPrice renders a minor-unit price as a decimal string.
func FormatPrice(price int64) string {
	return fmt.Sprintf("%d.%02d", price/100, price%100)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func PrintColleges(w io.Writer, colleges []domain.College) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tALLOWED DOMAINS")
	for _, college := range colleges {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", college.ID, college.Name, college.AllowedDomains)
	}
	_ = tw.Flush()
}

func PrintCanteens(w io.Writer, canteens []domain.Canteen) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tOPEN")
	for _, canteen := range canteens {
		open := "closed"
		if canteen.IsOpen {
			open = "open"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", canteen.ID, canteen.Name, canteen.VendorPhone, open)
	}
	_ = tw.Flush()
}

func PrintMenu(w io.Writer, items []domain.MenuItem) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tAVAILABLE")
	for _, item := range items {
		available := "yes"
		if !item.Available {
			available = "no"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			item.ID, item.Name, item.Category, FormatPrice(item.Price), available)
	}
	_ = tw.Flush()
}

func PrintCart(w io.Writer, c cart.Cart) {
	if c.Empty() {
		fmt.Fprintln(w, "cart is empty")
		return
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "canteen #%d\n", c.CanteenID)
	fmt.Fprintln(tw, "ITEM\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, line := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			line.MenuItemID, line.Name, line.Quantity,
			FormatPrice(line.Price), FormatPrice(line.Price*int64(line.Quantity)))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", c.ItemCount(), FormatPrice(c.Total()))
	_ = tw.Flush()
}

func PrintOrders(w io.Writer, orders []domain.Order) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tITEMS\tTOTAL\tPLACED AT")
	for _, order := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			order.ID, order.Status, len(order.Items),
			FormatPrice(order.Total), order.CreatedAt.Format("Jan 2 15:04"))
	}
	_ = tw.Flush()
}

// PrintOrder renders a single order with the transition actions its current
// status still allows.
func PrintOrder(w io.Writer, order domain.Order) {
	fmt.Fprintf(w, "order #%d  status=%s  total=%s\n",
		order.ID, order.Status, FormatPrice(order.Total))
	if order.SpecialInstructions != "" {
		fmt.Fprintf(w, "note: %s\n", order.SpecialInstructions)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ITEM\tQTY")
	for _, item := range order.Items {
		fmt.Fprintf(tw, "%d\t%d\n", item.MenuItemID, item.Quantity)
	}
	_ = tw.Flush()

	if actions := order.Status.NextActions(); len(actions) > 0 {
		fmt.Fprintf(w, "available actions:")
		for _, action := range actions {
			fmt.Fprintf(w, " %s", action)
		}
		fmt.Fprintln(w)
	}
}

func PrintUsers(w io.Writer, users []domain.User) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, user := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", user.ID, user.Name, user.Email, user.Role)
	}
	_ = tw.Flush()
}
