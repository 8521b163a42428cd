package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"snort-dashboard/internal/dashboard"
	"snort-dashboard/internal/model"

	"github.com/spf13/cobra"
)

type logsOptions struct {
	search    string
	signature string
	srcIP     string
	dstIP     string
	srcPort   string
	dstPort   string
	protocol  string
	action    string
	from      string
	to        string
	page      int
	asJSON    bool
}

// query maps the flags onto the same parameters the HTTP API accepts
func (o logsOptions) query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set(model.ParamSearch, o.search)
	set(model.ParamSignature, o.signature)
	set(model.ParamSrcIP, o.srcIP)
	set(model.ParamDstIP, o.dstIP)
	set(model.ParamSrcPort, o.srcPort)
	set(model.ParamDstPort, o.dstPort)
	set(model.ParamProtocol, o.protocol)
	set(model.ParamAction, o.action)
	set(model.ParamTimeFrom, o.from)
	set(model.ParamTimeTo, o.to)
	if o.page > 0 {
		q.Set("page", strconv.Itoa(o.page))
	}
	return q
}

func (c *cli) logsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List alerts from the first log source that has any",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			view := svc.Logs(opts.query())
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}
			printLogs(cmd.OutOrStdout(), view)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "Substring matched against every text field")
	f.StringVar(&opts.signature, "signature", "", "Signature substring")
	f.StringVar(&opts.srcIP, "src-ip", "", "Source address substring")
	f.StringVar(&opts.dstIP, "dst-ip", "", "Destination address substring")
	f.StringVar(&opts.srcPort, "src-port", "", "Exact source port")
	f.StringVar(&opts.dstPort, "dst-port", "", "Exact destination port")
	f.StringVar(&opts.protocol, "protocol", "", "Protocol substring")
	f.StringVarP(&opts.action, "action", "a", "", "Action (alert or drop)")
	f.StringVar(&opts.from, "from", "", "Earliest alert time")
	f.StringVar(&opts.to, "to", "", "Latest alert time")
	f.IntVarP(&opts.page, "page", "p", 1, "Page number")
	f.BoolVar(&opts.asJSON, "json", false, "Print the raw JSON view")
	return cmd
}

func printLogs(out io.Writer, view dashboard.LogsView) {
	if len(view.ActiveFiles) == 0 {
		fmt.Fprintln(out, "[WARN] No alert log with entries found")
	}
	for _, f := range view.ActiveFiles {
		fmt.Fprintf(out, "Source: %s\n", f.Path)
	}
	for key, raw := range view.Filters.Invalid {
		fmt.Fprintf(out, "[WARN] Ignoring unparsable %s=%q\n", key, raw)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tPROTO\tSOURCE\tDESTINATION\tPRIORITY\tSIGNATURE")
	for _, a := range view.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Timestamp, a.Action, a.Protocol,
			endpoint(a.SrcIP, a.SrcPort), endpoint(a.DstIP, a.DstPort),
			a.Priority, a.Signature)
	}
	w.Flush()

	fmt.Fprintf(out, "Page %d of %d (%d alerts)\n", view.Page, view.TotalPages, view.Total)
}

func endpoint(ip, port string) string {
	if port == model.NotAvailable {
		return ip
	}
	return ip + ":" + port
}
